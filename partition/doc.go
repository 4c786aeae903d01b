// Package partition builds capacity-bounded adaptive partition maps from raw
// spatial keys.
//
// The partitioner histograms objects over a fine fixed order, then merges
// sibling cells bottom-up while the merged count stays under a threshold. The
// threshold is soft: a cell that exceeds it even at the finest histogram order
// is still emitted, as an oversized leaf.
package partition
