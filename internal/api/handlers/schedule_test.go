package handlers

import (
	"testing"

	"github.com/kampungcare/medsched/pkg/circuitbreaker"
)

func TestBreakerStateValue(t *testing.T) {
	cases := []struct {
		state circuitbreaker.State
		want  float64
	}{
		{circuitbreaker.StateClosed, 0},
		{circuitbreaker.StateOpen, 1},
		{circuitbreaker.StateHalfOpen, 2},
	}
	for _, tc := range cases {
		if got := breakerStateValue(tc.state); got != tc.want {
			t.Errorf("breakerStateValue(%s) = %v, want %v", tc.state, got, tc.want)
		}
	}
}
