// Package crawler walks a single domain breadth-first, extracting each
// reachable same-host page under page-count and depth budgets with
// visited-set deduplication.
package crawler
