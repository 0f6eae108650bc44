// Copyright 2024 The ledgerkernel Authors
// This file is part of the ledgerkernel library.
//
// The ledgerkernel library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ledgerkernel library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ledgerkernel library. If not, see <http://www.gnu.org/licenses/>.

// Package xlog is a thin structured-logging wrapper around log/slog,
// in the spirit of go-ethereum's own log package: a package-level
// root logger, leveled convenience functions, and a New(ctx ...)
// constructor for attaching frame-local fields (depth, actor, txHash)
// without threading a logger through every function signature.
package xlog

import (
	"log/slog"
	"os"
)

var root = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

// SetJSON switches the root logger to JSON output, for production use.
func SetJSON(level slog.Level) {
	root = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// SetLevel adjusts verbosity of the default text handler.
func SetLevel(level slog.Level) {
	root = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// New returns a logger with the given fields attached to every
// subsequent record, e.g. xlog.New("depth", 2, "actor", actor).
func New(args ...any) *slog.Logger { return root.With(args...) }

func Debug(msg string, args ...any) { root.Debug(msg, args...) }
func Info(msg string, args ...any)  { root.Info(msg, args...) }
func Warn(msg string, args ...any)  { root.Warn(msg, args...) }
func Error(msg string, args ...any) { root.Error(msg, args...) }
