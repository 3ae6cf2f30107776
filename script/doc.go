// SPDX-License-Identifier: EPL-2.0

// Package script renders spectrum frames as a Lua storyboard script.
//
// The script embeds every frame as { time = <ms>, bands = {<dB>, ...} },
// declares its tunables with DefineParameter, normalises all band values
// to the observed min/max, and animates a row of bars whose heights follow
// the bands, with the low bands on the right and a boost towards the
// centre controlled by bass_multiplier.
package script
