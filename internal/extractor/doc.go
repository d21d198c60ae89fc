// Package extractor turns a live web page into a self-contained local
// project: the page's HTML plus local copies of its stylesheets,
// scripts, and images, with in-page references rewritten so the copy
// renders offline.
package extractor
