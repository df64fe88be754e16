package naming

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEpochIgnoresLastCharacter(t *testing.T) {
	want := time.Date(2020, time.May, 20, 18, 40, 0, 0, time.UTC)
	for _, token := range []string{"1590000000", "1590000001", "1590000009", "159000000x"} {
		got, err := DecodeEpoch(token)
		require.NoError(t, err, token)
		assert.True(t, want.Equal(got), "%s decoded to %s", token, got)
	}
}

func TestDecodeEpochMalformed(t *testing.T) {
	for _, token := range []string{"", "15900x0000", "abc", "-159000000"} {
		_, err := DecodeEpoch(token)
		assert.ErrorIs(t, err, ErrMalformedTimestamp, token)
	}
}

func TestFormatCalendar(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		folder string
		dhms   string
		year   int
	}{
		{"new year 2020", "1577836800", "001_Jan.01", "01_00_00_00", 2020},
		{"leap year end", "1609372800", "366_Dec.31", "31_00_00_00", 2020},
		{"non leap year end", "1577750400", "365_Dec.31", "31_00_00_00", 2019},
		{"mid year", "1590000000", "141_May.20", "20_18_40_00", 2020},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instant, err := DecodeEpoch(tt.token)
			require.NoError(t, err)
			c := FormatCalendar(instant)
			assert.Equal(t, tt.folder, c.DayFolder())
			assert.Equal(t, tt.dhms, c.DHMS())
			assert.Equal(t, tt.year, c.Year)

			again, err := DecodeEpoch(tt.token)
			require.NoError(t, err)
			assert.Equal(t, c, FormatCalendar(again))
		})
	}
}

func TestFormatCalendarNewYearFields(t *testing.T) {
	instant, err := DecodeEpoch("1577836800")
	require.NoError(t, err)
	c := FormatCalendar(instant)
	assert.Equal(t, Calendar{Year: 2020, DayOfYear: 1, Month: "Jan", Day: 1, Weekday: "Wed"}, c)
}

func TestParseShort(t *testing.T) {
	p, err := Parse("1590000001.c1.snap.jpg")
	require.NoError(t, err)
	assert.Equal(t, DialectShort, p.Dialect)
	assert.Equal(t, "1590000001", p.Epoch)
	assert.Equal(t, "c1", p.Camera)
	assert.Equal(t, "snap", p.Kind)
	assert.Equal(t, "jpg", p.Extension)
	assert.False(t, p.NeedsRepad)
	assert.Equal(t, "1590000001.c1.snap.jpg", p.Canonical())
}

func TestParseTimex(t *testing.T) {
	p, err := Parse("1590000000.timex.merge.jpg")
	require.NoError(t, err)
	assert.Equal(t, MergeCamera, p.Camera)
	assert.Equal(t, "timex.merge", p.Kind)
}

func TestParseLong(t *testing.T) {
	p, err := Parse("1590000000.Wed.May.20_18_40_00.GMT.2020.madbeach.c2.timex.jpg")
	require.NoError(t, err)
	assert.Equal(t, DialectLong, p.Dialect)
	assert.Equal(t, "madbeach", p.Station)
	assert.Equal(t, "c2", p.Camera)
	assert.Equal(t, "timex", p.Kind)
	assert.Equal(t, "jpg", p.Extension)
	assert.Equal(t, "2020", p.Year)
	assert.False(t, p.NeedsRepad)
}

func TestParseLongExt(t *testing.T) {
	p, err := Parse("1590000000.Wed.May.20_18_40_00.GMT.2020.madbeach.cx.timex.merge.jpg")
	require.NoError(t, err)
	assert.Equal(t, DialectLongExt, p.Dialect)
	assert.Equal(t, "timex", p.Kind)
	assert.Equal(t, "merge.jpg", p.Extension)
}

func TestRepadIsIdempotent(t *testing.T) {
	p, err := Parse("1577836800.Wed.Jan.1_0_0_0.GMT.2020.caco-01.c1.snap.jpg")
	require.NoError(t, err)
	require.True(t, p.NeedsRepad)

	fixed := p.Canonical()
	assert.Equal(t, "1577836800.Wed.Jan.01_00_00_00.GMT.2020.caco-01.c1.snap.jpg", fixed)

	again, err := Parse(fixed)
	require.NoError(t, err)
	assert.False(t, again.NeedsRepad)
	assert.Equal(t, fixed, again.Canonical())
}

func TestParseUnrecognized(t *testing.T) {
	names := []string{
		"a.b.c.d.e.f.g",
		"1590000000.c1.jpg",
		"1590000000.Wed.May.20_18_40.GMT.2020.madbeach.c2.timex.jpg",
		"1590000000.Wed.May.20_18_40_xx.GMT.2020.madbeach.c2.timex.jpg",
		"1590000000.Wed.May.20_18_40_100.GMT.2020.madbeach.c2.timex.jpg",
	}
	for _, name := range names {
		_, err := Parse(name)
		assert.ErrorIs(t, err, ErrUnrecognizedFilename, name)
	}
}

func TestParseMalformedEpoch(t *testing.T) {
	_, err := Parse("15900x0000.c1.snap.jpg")
	assert.ErrorIs(t, err, ErrMalformedTimestamp)
}

func TestIsImageLike(t *testing.T) {
	assert.True(t, IsImageLike("1590000000.c1.snap.jpg"))
	assert.True(t, IsImageLike("scan.tiff"))
	assert.True(t, IsImageLike("frame.cr2"))
	assert.True(t, IsImageLike("thumbjpg"))
	assert.False(t, IsImageLike("1590000000.c1.snap.JPG"))
	assert.False(t, IsImageLike("notes.docx"))
	assert.False(t, IsImageLike("1590000000.c1.log.txt"))
	assert.True(t, IsLogFile("1590000000.c1.log.txt"))
}

func TestRemapCamera(t *testing.T) {
	tests := map[string]string{
		"Camera1":  "c1",
		"Camera12": "c12",
		"c1":       "c1",
		"cx":       "cx",
		"CameraX":  "CameraX",
		"Camera":   "Camera",
	}
	for in, want := range tests {
		assert.Equal(t, want, RemapCamera(in), in)
	}
}

func TestArgusName(t *testing.T) {
	p, err := Parse("1577836801.c1.snap.jpg")
	require.NoError(t, err)
	assert.Equal(t, "1577836801.Wed.Jan.01_00_00_00.GMT.2020.madbeach.c1.snap.jpg", ArgusName(p, "madbeach"))

	merge, err := Parse("1577836800.timex.merge.jpg")
	require.NoError(t, err)
	name := ArgusName(merge, "nuvuk")
	assert.Equal(t, "1577836800.Wed.Jan.01_00_00_00.GMT.2020.nuvuk.cx.timex.merge.jpg", name)

	back, err := Parse(name)
	require.NoError(t, err)
	assert.Equal(t, DialectLongExt, back.Dialect)
	assert.Equal(t, MergeCamera, back.Camera)
}

func TestDerive(t *testing.T) {
	conv := Convention{Station: "madeira_beach", ShortName: "madbeach", RawSegment: true}

	p, err := Parse("1590000000.c2.snap.jpg")
	require.NoError(t, err)
	assert.Equal(t, "cameras/madeira_beach/c2/2020/141_May.20/raw/1590000000.c2.snap.jpg",
		Derive(p, p.Raw, conv))

	conv.RawSegment = false
	assert.Equal(t, "cameras/madeira_beach/c2/2020/141_May.20/1590000000.c2.snap.jpg",
		Derive(p, p.Raw, conv))

	merge, err := Parse("1590000000.timex.merge.jpg")
	require.NoError(t, err)
	conv.RawSegment = true
	assert.Equal(t, "cameras/madeira_beach/cx/merge/2020/141_May.20/1590000000.timex.merge.jpg",
		Derive(merge, merge.Raw, conv))
}

func TestDeriveUsesEpochYear(t *testing.T) {
	p, err := Parse("1577836800.Wed.Jan.01_00_00_00.GMT.1999.caco-01.c1.snap.jpg")
	require.NoError(t, err)
	got := Derive(p, p.Raw, Convention{Station: "caco-01"})
	assert.Equal(t, "cameras/caco-01/c1/2020/001_Jan.01/"+p.Raw, got)
}

func TestTargetName(t *testing.T) {
	conv := Convention{Station: "dorado", ShortName: "dorado", CameraRemap: true, LongNames: true}
	p, err := Parse("1577836800.Camera1.snap.jpg")
	require.NoError(t, err)
	name := conv.TargetName(p)
	assert.Equal(t, "1577836800.Wed.Jan.01_00_00_00.GMT.2020.dorado.c1.snap.jpg", name)
	assert.Equal(t, "cameras/dorado/c1/2020/001_Jan.01/"+name, Derive(p, name, conv))

	conv.LongNames = false
	assert.Equal(t, "1577836800.c1.snap.jpg", conv.TargetName(p))

	long, err := Parse("1577836800.Wed.Jan.1_0_0_0.GMT.2020.caco-01.c1.snap.jpg")
	require.NoError(t, err)
	assert.Equal(t, "1577836800.Wed.Jan.01_00_00_00.GMT.2020.caco-01.c1.snap.jpg",
		Convention{Station: "caco-01", LongNames: true}.TargetName(long))
}

func TestParseTreeKey(t *testing.T) {
	tests := []struct {
		key  string
		ok   bool
		want TreeKey
	}{
		{
			key:  "cameras/nuvuk/c1/2020/141_May.20/raw/1590000000.c1.snap.jpg",
			ok:   true,
			want: TreeKey{Camera: "c1", Year: "2020", DayFolder: "141_May.20", Filename: "1590000000.c1.snap.jpg", Raw: true},
		},
		{
			key:  "cameras/nuvuk/Camera1/2020/141_May.20/1590000000.Camera1.snap.jpg",
			ok:   true,
			want: TreeKey{Camera: "Camera1", Year: "2020", DayFolder: "141_May.20", Filename: "1590000000.Camera1.snap.jpg"},
		},
		{
			key:  "cameras/nuvuk/cx/merge/2020/141_May.20/1590000000.timex.merge.jpg",
			ok:   true,
			want: TreeKey{Camera: "cx", Year: "2020", DayFolder: "141_May.20", Filename: "1590000000.timex.merge.jpg", Merge: true},
		},
		{key: "cameras/nuvuk/c1calibration/2020/141_May.20/raw/a.jpg"},
		{key: "cameras/nuvuk/products/1590000000.c1.snap.jpg"},
		{key: "cameras/nuvuk/c1/2020/May20/raw/a.jpg"},
		{key: "cameras/nuvuk/c1/2020/141_May.20/other/a.jpg"},
		{key: "cameras/other/c1/2020/141_May.20/raw/a.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := ParseTreeKey("nuvuk", tt.key)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLayoutKeys(t *testing.T) {
	assert.Equal(t, "cameras/sandkey/products/", ProductsPrefix("sandkey"))
	assert.Equal(t, "cameras/caco-01/dumps/dumps/", DumpsPrefix("caco-01"))
	assert.Equal(t, "cameras/dreaminn/latest/", LatestPrefix("dreaminn"))
	assert.Equal(t, "cameras/sandkey/logs/station.txt", LogKey("sandkey", "station.txt"))
	assert.Equal(t, "cameras/caco-01/archives/a.jpg", ArchiveKey("caco-01", "a.jpg"))
	assert.Equal(t, "cameras/dreaminn/dreaminn_most_recent_time.csv", MarkerKey("dreaminn"))
	assert.Equal(t, "cameras/caco-01/caco-01_daily_tally.csv", TallyKey("caco-01"))

	dir, file := SplitKey("cameras/sandkey/products/a.jpg")
	assert.Equal(t, "cameras/sandkey/products", dir)
	assert.Equal(t, "a.jpg", file)
	assert.Equal(t, "cameras/sandkey/products/a.jpg", JoinKey(dir, file))
}
