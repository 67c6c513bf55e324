package mesosexec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shoenig/test/must"

	"github.com/nattofriends/task-processing/testlog"
)

func writeFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o600)
}

func TestLoadCredential_NoSecretFile(t *testing.T) {
	cred := LoadCredential("taskproc", "", testlog.HCLogger(t))
	must.Eq(t, "taskproc", cred.GetPrincipal())
	must.Eq(t, "", cred.GetSecret())
}

func TestLoadCredential_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")
	cred := LoadCredential("taskproc", missing, testlog.HCLogger(t))
	must.Eq(t, "taskproc", cred.GetPrincipal())
	must.Eq(t, "", cred.GetSecret())
}

func TestLoadCredential_ReadsAndTrimsSecret(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secret")
	must.NoError(t, writeFile(path, "s3kr1t\n"))

	cred := LoadCredential("taskproc", path, testlog.HCLogger(t))
	must.Eq(t, "taskproc", cred.GetPrincipal())
	must.Eq(t, "s3kr1t", cred.GetSecret())
}
