package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/gxpdf/internal/model"
)

// ============================================================================
// Round-trip Tests
// ============================================================================

func TestFilterRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		input  []byte
	}{
		{name: "FlateDecode", filter: "FlateDecode", input: []byte("the quick brown fox jumps over the lazy dog")},
		{name: "ASCII85Decode", filter: "ASCII85Decode", input: []byte("Man is distinguished")},
		{name: "ASCII85Decode empty-group run", filter: "ASCII85Decode", input: []byte{0, 0, 0, 0, 1, 2, 3, 4}},
		{name: "RunLengthDecode literal", filter: "RunLengthDecode", input: []byte("abcdefgh")},
		{name: "RunLengthDecode repeated", filter: "RunLengthDecode", input: []byte("aaaaaaaaaaaaaaaabbbbbbbbbbccddee")},
		{name: "ASCIIHexDecode", filter: "ASCIIHexDecode", input: []byte{0x00, 0x01, 0xAB, 0xFF, 0x10}},
		{name: "DCTDecode passthrough", filter: "DCTDecode", input: []byte{0xFF, 0xD8, 0xFF, 0xE0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := Lookup(tt.filter)
			require.True(t, ok)

			encoded, err := f.Encode(tt.input, nil)
			require.NoError(t, err)

			decoded, err := f.Decode(encoded, nil)
			require.NoError(t, err)

			assert.Equal(t, tt.input, decoded)
		})
	}
}

func TestFilterRoundTripEmptyInput(t *testing.T) {
	for _, name := range []string{"FlateDecode", "ASCII85Decode", "RunLengthDecode", "ASCIIHexDecode"} {
		t.Run(name, func(t *testing.T) {
			f, ok := Lookup(name)
			require.True(t, ok)

			encoded, err := f.Encode(nil, nil)
			require.NoError(t, err)

			decoded, err := f.Decode(encoded, nil)
			require.NoError(t, err)

			assert.Empty(t, decoded)
		})
	}
}

// ============================================================================
// DecodeStream / EncodeStream pipeline Tests
// ============================================================================

func TestDecodeStreamChainsMultipleFilters(t *testing.T) {
	original := []byte("stream content to protect")

	hexEncoded, err := asciiHexFilter{}.Encode(original, nil)
	require.NoError(t, err)
	flateEncoded, err := flateFilter{}.Encode(hexEncoded, nil)
	require.NoError(t, err)

	dict := model.NewDictionary()
	dict.Set("Filter", model.Array{model.Name("FlateDecode"), model.Name("ASCIIHexDecode")})
	strm := &model.Stream{Dict: dict, Data: flateEncoded, Encoded: true}

	decoded, err := DecodeStream(strm)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestEncodeStreamMirrorsDecodeStream(t *testing.T) {
	original := []byte("round trip through the public pipeline")
	names := []string{"FlateDecode", "ASCIIHexDecode"}

	encoded, err := EncodeStream(original, names, nil)
	require.NoError(t, err)

	dict := model.NewDictionary()
	arr := model.Array{}
	for _, n := range names {
		arr = append(arr, model.Name(n))
	}
	dict.Set("Filter", arr)
	strm := &model.Stream{Dict: dict, Data: encoded, Encoded: true}

	decoded, err := DecodeStream(strm)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecodeStreamSingleNameFilter(t *testing.T) {
	original := []byte("single name form")
	encoded, err := flateFilter{}.Encode(original, nil)
	require.NoError(t, err)

	dict := model.NewDictionary()
	dict.Set("Filter", model.Name("FlateDecode"))
	strm := &model.Stream{Dict: dict, Data: encoded, Encoded: true}

	decoded, err := DecodeStream(strm)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecodeStreamUnknownFilterErrors(t *testing.T) {
	dict := model.NewDictionary()
	dict.Set("Filter", model.Name("NoSuchDecode"))
	strm := &model.Stream{Dict: dict, Data: []byte("x"), Encoded: true}

	_, err := DecodeStream(strm)
	require.Error(t, err)
}

func TestDecodeStreamNoFilterIsPassthrough(t *testing.T) {
	dict := model.NewDictionary()
	strm := &model.Stream{Dict: dict, Data: []byte("already plain"), Encoded: true}

	decoded, err := DecodeStream(strm)
	require.NoError(t, err)
	assert.Equal(t, []byte("already plain"), decoded)
}

// ============================================================================
// FlateDecode sync-flush recovery
// ============================================================================

func TestFlateDecodeSyncFlushRecovery(t *testing.T) {
	// zlib header (78 9C) + raw deflate blocks for "q\n" + sync-flush
	// terminator (00 00 FF FF) instead of a final block.
	data := []byte{0x78, 0x9C, 0x2A, 0xE4, 0x02, 0x00, 0x00, 0x00, 0xFF, 0xFF}

	decoded, err := flateFilter{}.Decode(data, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("q\n"), decoded)
}

func TestFlateDecodeTruncatedStreamWithoutSyncFlushStillRecoversWhatItCan(t *testing.T) {
	full := []byte("content stream operators go here")
	encoded, err := flateFilter{}.Encode(full, nil)
	require.NoError(t, err)

	truncated := encoded[:len(encoded)-2]

	decoded, derr := flateFilter{}.Decode(truncated, nil)
	if derr == nil {
		assert.NotEmpty(t, decoded)
	}
}

// ============================================================================
// PNG / TIFF predictor
// ============================================================================

func TestApplyPredictorNoneLeavesDataUnchanged(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	out, err := applyPredictor(data, nil)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestApplyPredictorPNGSub(t *testing.T) {
	params := model.NewDictionary()
	params.Set("Predictor", model.Int(11))
	params.Set("Columns", model.Int(3))
	params.Set("Colors", model.Int(1))
	params.Set("BitsPerComponent", model.Int(8))

	// One row: tag=1 (Sub), bytes 5,3,2 -> decoded 5,8,10
	input := []byte{1, 5, 3, 2}
	out, err := applyPredictor(input, params)
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 8, 10}, out)
}

func TestApplyPredictorTIFF(t *testing.T) {
	params := model.NewDictionary()
	params.Set("Predictor", model.Int(2))
	params.Set("Columns", model.Int(3))
	params.Set("Colors", model.Int(1))
	params.Set("BitsPerComponent", model.Int(8))

	// Row deltas 5,3,2 -> cumulative 5,8,10
	input := []byte{5, 3, 2}
	out, err := applyPredictor(input, params)
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 8, 10}, out)
}

// ============================================================================
// LZW
// ============================================================================

func TestLZWDecodeUnsupportedEncode(t *testing.T) {
	_, err := lzwFilter{}.Encode([]byte("anything"), nil)
	require.Error(t, err)
}

// ============================================================================
// Crypt / JBIG2
// ============================================================================

func TestCryptFilterIdentityPassthrough(t *testing.T) {
	params := model.NewDictionary()
	params.Set("Name", model.Name("Identity"))

	out, err := cryptFilter{}.Decode([]byte("plain"), params)
	require.NoError(t, err)
	assert.Equal(t, []byte("plain"), out)
}

func TestCryptFilterNonIdentityUnsupported(t *testing.T) {
	params := model.NewDictionary()
	params.Set("Name", model.Name("AESV2"))

	_, err := cryptFilter{}.Decode([]byte("plain"), params)
	require.Error(t, err)
}

func TestJBIG2Unsupported(t *testing.T) {
	_, err := jbig2Filter{}.Decode([]byte("x"), nil)
	require.Error(t, err)
}
