package encode

// CDQualityFilter resamples to 16-bit 44.1kHz.
const CDQualityFilter = "aresample=out_sample_fmt=s16:out_sample_rate=44100"

// FFmpegArgs converts src to dst, optionally forcing CD quality.
func FFmpegArgs(src, dst string, cdQuality bool) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-y", "-i", src}
	if cdQuality {
		args = append(args, "-af", CDQualityFilter)
	}
	return append(args, dst)
}

// FFmpegVerifyArgs decodes src and discards the output.
func FFmpegVerifyArgs(src string) []string {
	return []string{"-hide_banner", "-loglevel", "error", "-i", src, "-f", "null", "-"}
}

// FlacDecodeArgs decodes src to stdout.
func FlacDecodeArgs(src string) []string {
	return []string{"-dsc", src}
}

// FlacTestArgs runs the FLAC integrity test.
func FlacTestArgs(src string) []string {
	return []string{"-t", "-s", src}
}

// LameArgs encodes stdin to out with the given preset.
func LameArgs(preset, out string) []string {
	return []string{"-q1", "--vbr-new", "-V0", "--preset", preset, "--add-id3v2", "--id3v2-only", "--silent", "-", out}
}

// ShnsplitArgs splits src at the tracks in cue, writing into dir.
func ShnsplitArgs(cue, src, dir string) []string {
	args := []string{"-f", cue, "-o", "flac", "-t", "%n.%p.%t"}
	if dir != "" {
		args = append(args, "-d", dir)
	}
	return append(args, src)
}
