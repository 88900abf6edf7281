// Package mem provides cache-line aligned heap buffers.
//
// Pool chunks on the Go heap are carved from these buffers so that blocks
// never straddle a cache line more than their size requires.
package mem
