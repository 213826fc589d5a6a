package heat

import (
	"fmt"
)

// StackName builds the deployment name for a stack tracking the tip of the
// default branch: the fixed prefix plus the commit hash.
func StackName(sha string) string {
	return fmt.Sprintf("master_%s", sha)
}

// GerritStackName builds the deployment name for a stack built from a
// review change. No commit lookup is involved.
func GerritStackName(change string) string {
	return fmt.Sprintf("gerrit_%s", change)
}
