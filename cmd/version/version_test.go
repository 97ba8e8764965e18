// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package version

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestVersionOutput(t *testing.T) {
	out := &bytes.Buffer{}
	root := &cli.Command{
		Name:     "ciotest",
		Commands: []*cli.Command{VersionCmd},
		Writer:   out,
	}

	require.NoError(t, root.Run(context.Background(), []string{"ciotest", "version"}))
	assert.Contains(t, out.String(), "ciotest dev")
}
