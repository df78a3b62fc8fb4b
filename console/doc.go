// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package console runs the voting form in a terminal for stations without
// a browser.
package console
