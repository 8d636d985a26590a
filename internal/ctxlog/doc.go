// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog carries a *slog.Logger in a context.Context so that every layer of a build
// logs through the sink chosen by the caller, without package-level logger state.
//
// The default sink is a pretty console handler. Its level comes from the environment variable
// <EXECUTABLE>_LOG_LEVEL (e.g. YOCTALES_LOG_LEVEL) and can be overridden at runtime via LevelVar.
package ctxlog
