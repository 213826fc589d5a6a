package keys

import (
	"fmt"
	"os"
)

// WriteStackKey writes the stack's private key to <stackName>.pem in the
// current directory, readable and writable by the owner only, and returns
// the path. The file is left in place after use so subsequent manual ssh
// invocations can reuse it.
func WriteStackKey(stackName, key string) (string, error) {
	path := stackName + ".pem"

	if err := os.WriteFile(path, []byte(key), 0600); err != nil {
		return "", fmt.Errorf("writing key file %s: %w", path, err)
	}

	// WriteFile does not tighten permissions on a pre-existing file.
	if err := os.Chmod(path, 0600); err != nil {
		return "", fmt.Errorf("restricting key file %s: %w", path, err)
	}

	return path, nil
}
