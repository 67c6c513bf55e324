package mesosexec

import (
	"os"
	"strings"

	mesos "github.com/mesos/mesos-go/mesosproto"
	"github.com/hashicorp/go-hclog"
)

// LoadCredential builds the Credential the scheduler driver registers
// with. A missing secretFile is logged at error severity (the most
// severe level hclog has) but is not
// itself an error: the driver proceeds with an empty secret, matching
// the reference implementation's behavior of logging and continuing
// rather than aborting startup. Callers that consider a missing
// credential file fatal should check secretFile with os.Stat themselves
// before calling New.
func LoadCredential(principal, secretFile string, logger hclog.Logger) *mesos.Credential {
	cred := &mesos.Credential{Principal: &principal}

	if secretFile == "" {
		return cred
	}

	data, err := os.ReadFile(secretFile)
	if err != nil {
		logger.Error("credential secret file does not exist", "path", secretFile, "error", err)
		return cred
	}

	secret := strings.TrimSpace(string(data))
	cred.Secret = &secret
	return cred
}
