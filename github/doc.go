// Package github downloads a repository source tarball from the GitHub API
// and unpacks it into a scratch directory.
//
// The snapshot root is the archive's single top-level directory. Any
// previous snapshot at the same path is removed first so runs sharing a
// warm Lambda environment never see stale files.
package github
