// Package delay provides multi-channel circular delay lines with fractional reads.
//
// A [MultiLine] owns one ring buffer per channel. Channels are driven in one of
// two ways, never both:
//
//   - read side: [MultiLine.PushSample] then [MultiLine.PopSample] once per
//     sample, reading behind the write cursor;
//   - write side: [MultiLine.ScatterSample] then [MultiLine.PullSample] once per
//     sample, placing input ahead of the read cursor so that changing the delay
//     never moves samples already in flight.
//
// All memory is allocated in [MultiLine.Prepare]; the per-sample methods never
// allocate.
package delay
