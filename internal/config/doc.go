// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config reads the YAML build description: the image name, the layers to clone, optional
// setup commands and the bitbake invocation.
package config
