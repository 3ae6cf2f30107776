// SPDX-License-Identifier: EPL-2.0

// Command audspec analyses a time range of an audio file and writes a Lua
// storyboard script that animates bars from the spectrum.
//
// Usage:
//
//	audspec [flags] <input> <start_ms> <end_ms> [bands] [frame_size] [output.lua]
//
// bands defaults to 32 and frame_size to 2048. The script is written to
// <output>@<start_ms>.lua, where a trailing .lua or .txt is dropped from
// output first; output defaults to spectrum.lua.
//
// Flags:
//
//	-config file    YAML file with log level, analysis and script defaults
//	-workers n      analyse frames on n goroutines
//	-log-level lvl  debug, info, warn or error
//	-dump-wav file  also write the extracted range as mono 16-bit WAV
//	-progress       log analysis progress every 100 frames
//
// The exit status is 2 for invalid arguments and 1 when the audio cannot be
// processed.
package main
