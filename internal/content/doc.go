// Package content computes metadata derived from a post body: word counts,
// reading time, heading anchors, the table of contents and URL slugs.
//
// Everything here is a pure function of its input; no file system access.
package content
