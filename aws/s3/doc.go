// Package s3 synchronizes a local build output directory into an S3 bucket.
//
// Sync makes the bucket's object set match the directory: files missing
// remotely or whose content differs are uploaded, and objects with no local
// counterpart are deleted. Directory index files named "index.<ext>" are
// stored as "index.html" so the bucket website finds them.
//
// Example usage:
//
//	client, err := s3.New(s3.WithRegion("us-east-1"))
//	if err != nil {
//	    return err
//	}
//
//	result, err := client.Sync(ctx, "/tmp/site/_build_lambda", "www.example.org",
//	    s3.WithSyncSettings(siteSettings),
//	)
//	if err != nil {
//	    return err
//	}
package s3
