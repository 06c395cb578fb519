package shell

import (
	"bytes"
	"testing"

	logrusTest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"github.com/sidkik/indexsync/pkg/shell/mocks"
)

func TestRemoteLine(t *testing.T) {
	ctx := Context{Host: "search@replica-1"}
	assert.Equal(t, `ssh -o BatchMode=yes search@replica-1 "kill -HUP \$(cat /run/searchd.pid)"`,
		ctx.RemoteLine("kill -HUP $(cat /run/searchd.pid)"))

	ctx.Key = "/home/search/.ssh/id replica"
	assert.Equal(t, `ssh -o BatchMode=yes -i '/home/search/.ssh/id replica' search@replica-1 "true"`,
		ctx.RemoteLine("true"))
}

func TestDryRunNeverExecutes(t *testing.T) {
	exec := &mocks.Executor{}
	var out bytes.Buffer
	ctx := Context{
		Host:   "replica",
		DryRun: true,
		Exec:   exec,
		Out:    &out,
	}

	code, err := ctx.Local("indexer --all")
	assert.NoError(t, err)
	assert.Equal(t, 0, code)

	code, err = ctx.Remote("mv -f /a /b")
	assert.NoError(t, err)
	assert.Equal(t, 0, code)

	assert.Equal(t, "indexer --all\n"+
		`ssh -o BatchMode=yes replica "mv -f /a /b"`+"\n", out.String())
	exec.AssertNumberOfCalls(t, "Run", 0)
}

func TestRunDelegatesToExecutor(t *testing.T) {
	exec := &mocks.Executor{}
	exec.On("Run", `ssh -o BatchMode=yes replica "false"`).Return(1, nil)

	logger, logHook := logrusTest.NewNullLogger()
	ctx := Context{Exec: exec, Log: logger}.ForHost("replica")

	code, err := ctx.Remote("false")
	assert.NoError(t, err)
	assert.Equal(t, 1, code)
	exec.AssertExpectations(t)

	entries := logHook.AllEntries()
	assert.Len(t, entries, 0, "debug entries are filtered by the default level")
}
