package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCPUTime(t *testing.T) {

	assert.Equal(t, "00:00:00", formatCPUTime(0))
	assert.Equal(t, "00:00:59", formatCPUTime(59))
	assert.Equal(t, "00:01:01", formatCPUTime(61))
	assert.Equal(t, "01:00:00", formatCPUTime(3600))
	assert.Equal(t, "02:03:04", formatCPUTime(2*3600+3*60+4))
}

func TestParseCPUTimes(t *testing.T) {

	stat := "1234 (my prog) S 1 1234 1234 0 -1 4194304 100 0 0 0 250 120 0 0 20 0 1 0"

	utime, stime, err := parseCPUTimes(stat, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(2), utime)
	assert.Equal(t, int64(1), stime)

	_, _, err = parseCPUTimes("1234 (x) S 1", 100)
	assert.Error(t, err)

	_, _, err = parseCPUTimes(stat, 0)
	assert.Error(t, err)
}

func TestPluralize(t *testing.T) {

	assert.Equal(t, "statement", pluralize("statement", 1))
	assert.Equal(t, "statements", pluralize("statement", 0))
	assert.Equal(t, "statements", pluralize("statement", 2))
	assert.Equal(t, uint64(3), convertToMB(3*1024*1024+5))
}
