// Package audio decodes MP3 responses and plays them through the system
// audio device using oto/v3.
package audio
