// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package teereader provides LineTee, an io.Writer that keeps every byte written to it in arrival
// order and hands each complete line to a callback as soon as the newline arrives.
// The process runner uses one LineTee per output stream to log child output live while still
// returning the full stream contents afterwards.
package teereader
