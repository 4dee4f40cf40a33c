// Command reel is a CLI for a video generation service built around
// character profiles: reference image sets, generation locks, job
// submission, and a watch mode that follows jobs and assets as they appear.
package main
