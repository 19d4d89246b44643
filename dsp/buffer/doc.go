// Package buffer provides a planar multi-lane sample arena whose storage is
// allocated once during preparation and reused by every processing block.
package buffer
