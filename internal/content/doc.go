// Package content maps URL slugs onto MDX source files.
//
// A slug such as ["job-specification", "update"] may be backed by either
// content/docs/job-specification/update.mdx or
// content/docs/job-specification/update/index.mdx. The resolver reads both
// candidates concurrently and the enumerator walks the tree to list every
// slug that has a page.
package content
