package repository

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	day := time.Date(2014, time.October, 8, 12, 0, 0, 0, time.UTC)

	code, err := GenerateCode(day, 1)
	require.NoError(t, err)

	// Uppercase base-35 of the ddMMyyyy + "0" + id decimal.
	assert.Equal(t, strings.ToUpper(code), code)
	n, err := strconv.ParseInt(strings.ToLower(code), 35, 64)
	require.NoError(t, err)
	assert.Equal(t, int64(810201401), n)
}

func TestGenerateCodeDeterministic(t *testing.T) {
	day := time.Date(2026, time.August, 31, 9, 30, 0, 0, time.UTC)

	first, err := GenerateCode(day, 42)
	require.NoError(t, err)
	second, err := GenerateCode(day, 42)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := GenerateCode(day, 43)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)

	nextDay, err := GenerateCode(day.AddDate(0, 0, 1), 42)
	require.NoError(t, err)
	assert.NotEqual(t, first, nextDay)
}

func TestGenerateCodeOverflow(t *testing.T) {
	day := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)

	// Eleven-digit ids push the concatenated decimal past int64.
	_, err := GenerateCode(day, 99_999_999_999)
	assert.Error(t, err)
}
