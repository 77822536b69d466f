// Copyright 2017 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package log

import (
	"bytes"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

func TestAppendInt64(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{99999, "99999"},
		{100000, "100,000"},
		{-1234567, "-1,234,567"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, string(appendInt64(nil, tt.in)))
	}
}

func TestTerminalHandler(t *testing.T) {
	var buf bytes.Buffer
	var lvl slog.LevelVar
	lvl.Set(slog.LevelInfo)

	l := NewLogger(NewTerminalHandlerWithLevel(&buf, &lvl, false))
	l.Debug("hidden")
	l.Info("proposer elected", "power", big.NewInt(100), "locked", uint256.NewInt(7), "note", "a b")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "INFO ["))
	assert.Contains(t, out, "proposer elected")
	assert.Contains(t, out, "power=100")
	assert.Contains(t, out, "locked=7")
	assert.Contains(t, out, `note="a b"`)
}

func TestJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(JSONHandler(&buf))
	l.With("pkg", "pos").Warn("odd", "k")

	out := buf.String()
	assert.Contains(t, out, `"lvl":"warn"`)
	assert.Contains(t, out, `"pkg":"pos"`)
	assert.Contains(t, out, errorKey)
}

func TestLazyLogger(t *testing.T) {
	lazy := WithContext("pkg", "test")

	var buf bytes.Buffer
	prev := Root()
	SetDefault(NewLogger(NewTerminalHandler(&buf, false)))
	defer SetDefault(prev)

	lazy.Info("after set default")
	assert.Contains(t, buf.String(), "pkg=test")
}

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, LevelCrit, FromLegacyLevel(0))
	assert.Equal(t, slog.LevelInfo, FromLegacyLevel(LegacyLevelInfo))
	assert.Equal(t, LevelTrace, FromLegacyLevel(9))
	assert.Equal(t, "INFO ", LevelAlignedString(slog.LevelInfo))
}
