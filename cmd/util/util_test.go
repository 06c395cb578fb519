package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sidkik/indexsync/pkg/errors"
)

func TestHandleFatalError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		expOutput string
		expCode   int
	}{
		{
			name:      "Plain",
			err:       errors.WithContext(errors.New("no route to host"), "connect"),
			expOutput: "connect: no route to host\n",
			expCode:   1,
		},
		{
			name: "Friendly",
			err: errors.WithContext(errors.NewFriendlyError(
				"Another run holds the lock."), "acquire lock"),
			expOutput: "Another run holds the lock.\n",
			expCode:   1,
		},
		{
			name: "ExitStatus",
			err: errors.WithContext(errors.ExitError{Op: "stage", Code: 23},
				"push main to r1"),
			expOutput: "push main to r1: stage exited with status 23\n",
			expCode:   23,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			var out bytes.Buffer
			var code int
			stderr = &out
			exit = func(c int) { code = c }

			HandleFatalError(test.err)
			assert.Equal(t, test.expOutput, out.String())
			assert.Equal(t, test.expCode, code)
		})
	}
}
