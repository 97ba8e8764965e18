// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package checks

import (
	"github.com/ciotools/ciotest/internal/toolrun"
)

// runTool invokes one external tool. It is a package variable so tests can
// substitute a fake.
var runTool = toolrun.Run
