// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

//go:build unix

package ytdlp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/xgfetch/internal/domain/media"
)

// writeStub creates an executable shell script standing in for yt-dlp.
// The script records its argv (one per line) to <dir>/args.
func writeStub(t *testing.T, body string) (bin string, argsFile string) {
	t.Helper()
	dir := t.TempDir()
	argsFile = filepath.Join(dir, "args")
	bin = filepath.Join(dir, "yt-dlp")
	script := "#!/bin/sh\nprintf '%s\\n' \"$@\" > '" + argsFile + "'\n" + body + "\n"
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))
	return bin, argsFile
}

func readArgs(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

const probeJSON = `{"id":"abc123","title":"Clip","duration":212.5,"thumbnail":"https://i.example/t.jpg","formats":[
{"format_id":"137","vcodec":"avc1","acodec":"none","height":1080,"tbr":4500,"ext":"mp4","filesize":1000},
{"format_id":"140","vcodec":"none","acodec":"mp4a","abr":129.5,"tbr":130,"ext":"m4a","filesize":null,"filesize_approx":777},
{"format_id":"sb0","vcodec":"none","acodec":"none","height":null,"tbr":null,"ext":"mhtml"}]}`

func TestProbe_ParsesMetadataAndVariants(t *testing.T) {
	bin, argsFile := writeStub(t, "cat <<'JSON'\n"+probeJSON+"\nJSON")
	inv := New(Config{Bin: bin})

	res, err := inv.Probe(context.Background(), "https://youtu.be/abc123")
	require.NoError(t, err)

	assert.Equal(t, "abc123", res.ID)
	assert.Equal(t, "Clip", res.Title)
	assert.InDelta(t, 212.5, res.Duration, 0.001)
	require.Len(t, res.Variants, 3)

	assert.Equal(t, media.RawVariant{ID: "137", VideoCodec: "avc1", AudioCodec: "none", Height: 1080, Bitrate: 4500, Ext: "mp4", Size: 1000}, res.Variants[0])
	assert.Equal(t, int64(777), res.Variants[1].Size, "approximate size used when exact is null")
	assert.InDelta(t, 129.5, res.Variants[1].AudioBitrate, 0.001)
	assert.Zero(t, res.Variants[2].Height)

	args := readArgs(t, argsFile)
	assert.Equal(t, []string{
		"--user-agent", DefaultUserAgent,
		"--retries", "3",
		"--no-check-certificates",
		"--dump-json", "--no-download", "--no-warnings",
		"https://youtu.be/abc123",
	}, args)
}

func TestProbe_NullDurationIsZero(t *testing.T) {
	bin, _ := writeStub(t, `echo '{"id":"x","title":"t","duration":null,"formats":[]}'`)
	res, err := New(Config{Bin: bin}).Probe(context.Background(), "u")
	require.NoError(t, err)
	assert.Zero(t, res.Duration)
	assert.Empty(t, res.Variants)
}

func TestProbe_UnavailableResource(t *testing.T) {
	for _, msg := range []string{
		"ERROR: [youtube] abc: Video unavailable",
		"ERROR: [youtube] abc: Private video. Sign in if granted access",
		"ERROR: [youtube] abc: This video has been removed by the uploader",
	} {
		bin, _ := writeStub(t, "echo '"+msg+"' >&2; exit 1")
		_, err := New(Config{Bin: bin}).Probe(context.Background(), "u")
		require.Error(t, err)
		assert.True(t, errors.Is(err, media.ErrResourceUnavailable), msg)
	}
}

func TestProbe_ProcessFailureKeepsStderr(t *testing.T) {
	bin, _ := writeStub(t, "echo 'ERROR: network is down' >&2; exit 2")
	_, err := New(Config{Bin: bin}).Probe(context.Background(), "u")

	var te *media.ToolError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, media.KindProcessFailure, te.Kind)
	assert.Equal(t, "probe", te.Mode)
	assert.Contains(t, te.Stderr, "network is down")
	assert.False(t, errors.Is(err, media.ErrResourceUnavailable))
}

func TestProbe_ParseFailure(t *testing.T) {
	bin, _ := writeStub(t, "echo 'definitely not json'")
	_, err := New(Config{Bin: bin}).Probe(context.Background(), "u")
	assert.True(t, media.IsToolError(err, media.KindParseFailure))
}

func TestProbe_BufferOverflow(t *testing.T) {
	bin, _ := writeStub(t, "while :; do printf 'xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx'; done")
	inv := New(Config{Bin: bin, MaxOutputBytes: 1024, KillGrace: 200 * time.Millisecond})

	done := make(chan error, 1)
	go func() {
		_, err := inv.Probe(context.Background(), "u")
		done <- err
	}()

	select {
	case err := <-done:
		assert.True(t, media.IsToolError(err, media.KindBufferOverflow))
	case <-time.After(10 * time.Second):
		t.Fatal("overflowing probe was not terminated")
	}
}

func TestProbe_MissingBinary(t *testing.T) {
	_, err := New(Config{Bin: filepath.Join(t.TempDir(), "nope")}).Probe(context.Background(), "u")
	assert.True(t, media.IsToolError(err, media.KindProcessFailure))
}

const fetchBody = `out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-o" ]; then out="$2"; fi
  shift
done`

func TestFetch_ArgsAndOutput(t *testing.T) {
	bin, argsFile := writeStub(t, fetchBody+"\necho media > \"$out\"")
	dest := filepath.Join(t.TempDir(), "ytdl_0011223344556677.mp4")

	err := New(Config{Bin: bin}).Fetch(context.Background(), "https://youtu.be/abc", media.FetchRequest{
		FormatSpec:     "137+bestaudio/137/best",
		Destination:    dest,
		MergeContainer: "mp4",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "media\n", string(data))

	args := readArgs(t, argsFile)
	assert.Equal(t, []string{
		"--user-agent", DefaultUserAgent,
		"--retries", "3",
		"--no-check-certificates",
		"-f", "137+bestaudio/137/best",
		"-o", dest,
		"--no-warnings", "--no-part", "--no-playlist",
		"--merge-output-format", "mp4",
		"https://youtu.be/abc",
	}, args)
}

func TestFetch_AudioOmitsMergeContainer(t *testing.T) {
	bin, argsFile := writeStub(t, fetchBody+"\n: > \"$out\"")
	dest := filepath.Join(t.TempDir(), "a.m4a")

	require.NoError(t, New(Config{Bin: bin, CheckCertificates: true}).Fetch(context.Background(), "u",
		media.FetchRequest{FormatSpec: "140", Destination: dest}))

	args := readArgs(t, argsFile)
	assert.NotContains(t, args, "--merge-output-format")
	assert.NotContains(t, args, "--no-check-certificates")
}

func TestFetch_Timeout(t *testing.T) {
	bin, _ := writeStub(t, "sleep 30")
	inv := New(Config{Bin: bin, FetchTimeout: 200 * time.Millisecond, KillGrace: 200 * time.Millisecond})

	start := time.Now()
	err := inv.Fetch(context.Background(), "u", media.FetchRequest{FormatSpec: "18", Destination: filepath.Join(t.TempDir(), "x.mp4")})
	assert.True(t, media.IsToolError(err, media.KindTimeout))
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestFetch_IgnoresCallerCancellation(t *testing.T) {
	bin, _ := writeStub(t, fetchBody+"\nsleep 0.3\necho done > \"$out\"")
	dest := filepath.Join(t.TempDir(), "x.mp4")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(Config{Bin: bin}).Fetch(ctx, "u", media.FetchRequest{FormatSpec: "18", Destination: dest})
	require.NoError(t, err)
	assert.FileExists(t, dest)
}

func TestFetch_RequiresSpecAndDestination(t *testing.T) {
	err := New(Config{}).Fetch(context.Background(), "u", media.FetchRequest{})
	assert.Error(t, err)
}

func TestFetch_RequestedFormatGoneIsToolError(t *testing.T) {
	bin, _ := writeStub(t, "echo 'ERROR: [youtube] abc: Requested format is not available' >&2; exit 1")

	err := New(Config{Bin: bin}).Fetch(context.Background(), "u",
		media.FetchRequest{FormatSpec: "137+bestaudio/137/best", Destination: filepath.Join(t.TempDir(), "x.mp4")})

	var te *media.ToolError
	require.True(t, errors.As(err, &te), "got %v", err)
	assert.Equal(t, media.KindProcessFailure, te.Kind)
	assert.Equal(t, "fetch", te.Mode)
	assert.Contains(t, te.Stderr, "Requested format is not available")
	assert.False(t, errors.Is(err, media.ErrResourceUnavailable))
}

func TestFetch_UnavailableMarkersStayToolErrors(t *testing.T) {
	bin, _ := writeStub(t, "echo 'ERROR: [youtube] abc: Video unavailable' >&2; exit 1")

	err := New(Config{Bin: bin}).Fetch(context.Background(), "u",
		media.FetchRequest{FormatSpec: "18", Destination: filepath.Join(t.TempDir(), "x.mp4")})

	assert.True(t, media.IsToolError(err, media.KindProcessFailure))
	assert.False(t, errors.Is(err, media.ErrResourceUnavailable))
}

func TestClassify(t *testing.T) {
	expired, cancel := context.WithTimeout(context.Background(), -time.Second)
	defer cancel()
	exitErr := errors.New("exit status 1")

	t.Run("clean exit beats expired deadline", func(t *testing.T) {
		assert.NoError(t, classify(expired, modeFetch, nil, false, ""))
	})
	t.Run("failed exit after deadline is timeout", func(t *testing.T) {
		assert.True(t, media.IsToolError(classify(expired, modeFetch, exitErr, false, ""), media.KindTimeout))
	})
	t.Run("overflow wins over clean exit", func(t *testing.T) {
		assert.True(t, media.IsToolError(classify(context.Background(), modeProbe, nil, true, ""), media.KindBufferOverflow))
	})
	t.Run("probe marker is unavailable", func(t *testing.T) {
		err := classify(context.Background(), modeProbe, exitErr, false, "ERROR: abc: Video unavailable")
		assert.ErrorIs(t, err, media.ErrResourceUnavailable)
	})
	t.Run("fetch marker is tool error", func(t *testing.T) {
		err := classify(context.Background(), modeFetch, exitErr, false, "ERROR: abc: Requested format is not available")
		assert.True(t, media.IsToolError(err, media.KindProcessFailure))
	})
}
