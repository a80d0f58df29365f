// Package deploy handles push notifications delivered through SNS.
//
// A push to the primary branch runs the whole pipeline: fetch the
// repository tarball, build the site, then synchronize the build output
// with the bucket named after the repository. Pushes to any other ref are
// acknowledged and ignored. Failures are returned unchanged in kind so the
// Lambda runtime records the invocation as failed; nothing is retried here.
package deploy
