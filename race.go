// Copyright 2026 the blockbuster authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package blockbuster

// RaceEnabled is true when the race detector is active.
// Used by tests to skip concurrent scenarios that rely on cross-variable
// memory ordering, which triggers false positives in the detector.
const RaceEnabled = true
