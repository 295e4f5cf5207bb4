package source

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/bpf"

	"firestige.xyz/netproc/internal/config"
	"firestige.xyz/netproc/internal/core"
)

var (
	ipv4Frame = append([]byte{
		0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 0x08, 0x00,
	}, make([]byte, 28)...)
	arpFrame = append([]byte{
		0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 0x08, 0x06,
	}, make([]byte, 28)...)
)

func pcapBytes(t *testing.T, linkType layers.LinkType, frames ...[]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := pcapgo.NewWriter(&buf)
	require.NoError(t, w.WriteFileHeader(65536, linkType))
	for i, f := range frames {
		require.NoError(t, w.WritePacket(gopacket.CaptureInfo{
			Timestamp:     time.Unix(1700000000+int64(i), 0),
			CaptureLength: len(f),
			Length:        len(f),
		}, f))
	}
	return buf.Bytes()
}

func pcapngBytes(t *testing.T, frames ...[]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := pcapgo.NewNgWriter(&buf, layers.LinkTypeEthernet)
	require.NoError(t, err)
	for i, f := range frames {
		require.NoError(t, w.WritePacket(gopacket.CaptureInfo{
			Timestamp:     time.Unix(1700000000+int64(i), 0),
			CaptureLength: len(f),
			Length:        len(f),
		}, f))
	}
	require.NoError(t, w.Flush())
	return buf.Bytes()
}

func readAll(t *testing.T, src gopacket.PacketDataSource) [][]byte {
	t.Helper()
	var out [][]byte
	for {
		data, _, err := src.ReadPacketData()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, data)
	}
}

func TestFileSourcePcap(t *testing.T) {
	src, err := newFileSource(bytes.NewReader(pcapBytes(t, layers.LinkTypeEthernet, ipv4Frame, arpFrame)), 1518, "")
	require.NoError(t, err)

	assert.Equal(t, layers.LinkTypeEthernet, src.LinkType())
	assert.Len(t, readAll(t, src), 2)
}

func TestFileSourcePcapng(t *testing.T) {
	src, err := newFileSource(bytes.NewReader(pcapngBytes(t, ipv4Frame)), 1518, "")
	require.NoError(t, err)

	assert.Equal(t, layers.LinkTypeEthernet, src.LinkType())
	frames := readAll(t, src)
	require.Len(t, frames, 1)
	assert.Equal(t, ipv4Frame, frames[0])
}

func TestFileSourceRejectsGarbage(t *testing.T) {
	_, err := newFileSource(bytes.NewReader([]byte{1, 2}), 1518, "")
	assert.Error(t, err)
}

func ipv4OnlyProgram(t *testing.T) []bpf.RawInstruction {
	t.Helper()
	raw, err := bpf.Assemble([]bpf.Instruction{
		bpf.LoadAbsolute{Off: 12, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: 0x0800, SkipFalse: 1},
		bpf.RetConstant{Val: 65535},
		bpf.RetConstant{Val: 0},
	})
	require.NoError(t, err)
	return raw
}

func TestPacketFilter(t *testing.T) {
	f, err := newPacketFilter(ipv4OnlyProgram(t))
	require.NoError(t, err)

	assert.True(t, f.Matches(ipv4Frame))
	assert.False(t, f.Matches(arpFrame))
	assert.False(t, f.Matches([]byte{0x00}))
}

func TestFileSourceAppliesFilter(t *testing.T) {
	src, err := newFileSource(bytes.NewReader(pcapBytes(t, layers.LinkTypeEthernet, arpFrame, ipv4Frame, arpFrame)), 1518, "")
	require.NoError(t, err)
	src.filter, err = newPacketFilter(ipv4OnlyProgram(t))
	require.NoError(t, err)

	frames := readAll(t, src)
	require.Len(t, frames, 1)
	assert.Equal(t, ipv4Frame, frames[0])
}

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.pcap")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestOpenFile(t *testing.T) {
	path := writeFile(t, pcapBytes(t, layers.LinkTypeEthernet, ipv4Frame))

	src, err := Open(config.CaptureConfig{Source: config.SourceFile, File: path, SnapLen: 1518})
	require.NoError(t, err)
	defer src.Close()

	assert.Len(t, readAll(t, src), 1)
	assert.NoError(t, src.Close())
}

func TestOpenFileNotEthernet(t *testing.T) {
	path := writeFile(t, pcapBytes(t, layers.LinkTypeRaw, make([]byte, 20)))

	_, err := Open(config.CaptureConfig{Source: config.SourceFile, File: path, SnapLen: 1518})
	assert.ErrorIs(t, err, core.ErrNotEthernet)
}

func TestOpenFileMissing(t *testing.T) {
	_, err := Open(config.CaptureConfig{Source: config.SourceFile, File: filepath.Join(t.TempDir(), "nope.pcap")})
	assert.Error(t, err)

	_, err = Open(config.CaptureConfig{Source: config.SourceFile})
	assert.Error(t, err)
}

func TestOpenUnknownSource(t *testing.T) {
	_, err := Open(config.CaptureConfig{Source: "netmap"})
	assert.ErrorIs(t, err, core.ErrConfigInvalid)
}

func TestRecomputeSize(t *testing.T) {
	frameSize, blockSize, numBlocks, err := recomputeSize(8, 1518, 4096)
	require.NoError(t, err)

	assert.Equal(t, 0, frameSize%16)
	assert.GreaterOrEqual(t, frameSize, 1518+52)
	assert.Equal(t, 0, blockSize%4096)
	assert.Equal(t, 0, blockSize%frameSize)
	assert.GreaterOrEqual(t, numBlocks, 1)
}

func TestRecomputeSizeInvalid(t *testing.T) {
	_, _, _, err := recomputeSize(0, 1518, 4096)
	assert.Error(t, err)
	_, _, _, err = recomputeSize(8, 0, 4096)
	assert.Error(t, err)
	_, _, _, err = recomputeSize(8, 1518, 4095)
	assert.Error(t, err)
}

func TestPickDefault(t *testing.T) {
	name, err := pickDefault([]Device{
		{Name: "lo", Addresses: []string{"127.0.0.1"}, Loopback: true},
		{Name: "any"},
		{Name: "eth0", Addresses: []string{"192.168.1.10"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "eth0", name)

	name, err = pickDefault([]Device{{Name: "lo", Loopback: true}})
	require.NoError(t, err)
	assert.Equal(t, "lo", name)

	_, err = pickDefault(nil)
	assert.ErrorIs(t, err, core.ErrSourceUnsupported)
}
