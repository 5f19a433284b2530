// Package syncplan derives the work needed to make an MP3 directory mirror
// its FLAC source.
//
// Planning is pure: MakeTranscodeList and MakeCleanUpList see only two
// directory listings. ReadListing and Walk are the thin file system layer
// that produces those listings for a single directory or a whole tree.
package syncplan
