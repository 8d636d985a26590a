// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package factory turns a build description into a plan and runs it.
//
// The plan always has the same shape: create the work directory, clone each layer, copy the build
// configuration files, run the setup commands, and finally run bitbake from a generated script.
package factory
