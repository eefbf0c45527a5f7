// Package timecode parses SMPTE timestamps as written in SCC files and maps
// caption packet offsets onto video frames.
//
// Captions are carried at one packet per 29.97 Hz field pair, so at other
// frame rates the packet clock and the video clock drift. [AddFrames]
// applies the cadence for each supported rate and the drop-frame skip
// rule. Frame rate detection is a best-effort heuristic over the observed
// timestamps, not a declared header.
package timecode
