// Package testsupport provides filesystem fixtures shared across package
// tests, including a generator that reproduces the fragmented folder layout
// GoPro cameras produce on FAT32 cards.
package testsupport
