// Package storage is the root of the disk-based heap storage engine.
//
// Data is organized into fixed-size pages (default 4096 bytes) that are read
// and written as atomic units.
//
// # Sub-packages
//
//   - [simpledb/pkg/storage/page] – the PageId type, the Page/DbFile
//     interfaces, and the raw-file plumbing (BaseFile) shared by every file
//     format built on top of it.
//   - [simpledb/pkg/storage/heap] – HeapPage (bitmap-header slotted page) and
//     HeapFile (an unordered sequence of heap pages on disk), including
//     sequential iteration.
package storage
