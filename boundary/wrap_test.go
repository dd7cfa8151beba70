package boundary_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaneyj/bulwark/boundary"
)

type profileProps struct {
	UserID string
	Broken bool
}

// should forward props unchanged to the wrapped component
func TestWrapForwardsProps(t *testing.T) {
	var got profileProps
	inner := func(p profileProps) (string, error) {
		got = p
		return "profile of " + p.UserID, nil
	}

	wrapped := boundary.Wrap(inner, boundary.Options[string]{
		Fallback: boundary.Static("fallback"),
	})

	v, err := wrapped(profileProps{UserID: "u-42"})
	require.NoError(t, err)
	assert.Equal(t, "profile of u-42", v)
	assert.Equal(t, profileProps{UserID: "u-42"}, got)
}

// should contain failures of the wrapped component
func TestWrapContainsFailures(t *testing.T) {
	runs := 0
	inner := func(p profileProps) (string, error) {
		runs++
		if p.Broken {
			return "", fmt.Errorf("loading %s: %w", p.UserID, errBoom)
		}
		return "ok", nil
	}

	wrapped := boundary.Wrap(inner, boundary.Options[string]{
		FallbackRender: func(p boundary.FallbackProps[string]) string {
			return "contained: " + p.Err.Error()
		},
	})

	v, err := wrapped(profileProps{UserID: "u-1", Broken: true})
	require.NoError(t, err)
	assert.Equal(t, "contained: loading u-1: boom", v)

	// the boundary persists across calls, the inner component stays parked
	v, err = wrapped(profileProps{UserID: "u-1"})
	require.NoError(t, err)
	assert.Equal(t, "contained: loading u-1: boom", v)
	assert.Equal(t, 1, runs)
}

// should recover the wrapped component after a reset from the fallback
func TestWrapResetFromFallback(t *testing.T) {
	broken := true
	var reset func(args ...any) bool
	inner := func(p profileProps) (string, error) {
		if broken {
			return "", errBoom
		}
		return "recovered", nil
	}

	wrapped := boundary.Wrap(inner, boundary.Options[string]{
		FallbackRender: func(p boundary.FallbackProps[string]) string {
			reset = p.Reset
			return "fallback"
		},
	})

	v, err := wrapped(profileProps{})
	require.NoError(t, err)
	require.Equal(t, "fallback", v)
	require.NotNil(t, reset)

	broken = false
	reset()

	v, err = wrapped(profileProps{})
	require.NoError(t, err)
	assert.Equal(t, "recovered", v)
}
