// Command medley reconciles upstream media metadata into a local library:
// one-off item refreshes, scheduled sweeps, and a long-running serve loop.
package main
