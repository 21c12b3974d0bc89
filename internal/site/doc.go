// Package site runs the content pipeline: load posts, write the snapshot,
// then emit the feeds, robots.txt and OG images from it.
//
// Stages run in order and a fatal stage aborts the build. Generators are
// independent of each other; they may run concurrently, and a failing
// generator never stops its siblings, though it fails the build.
package site
