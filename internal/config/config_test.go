package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"CoastCam/internal/naming"
)

func TestUnmarshal_S3AndStations(t *testing.T) {
	v := viper.New()
	v.Set("s3.driver", "minio")
	v.Set("s3.endpoint", "http://minio:9000")
	v.Set("s3.bucket", "cmgp-coastcam")
	v.Set("s3.prefix", "test")
	v.Set("stations", []map[string]interface{}{
		{"name": "madeira_beach", "short_name": "madbeach", "enabled": true, "raw_segment": true, "dialect": "long", "policy": "archive"},
	})
	cfg, err := Unmarshal(v)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if cfg.S3 == nil || cfg.S3.Driver != "minio" || cfg.S3.Bucket != "cmgp-coastcam" {
		t.Fatalf("s3 = %+v", cfg.S3)
	}
	if len(cfg.Stations) != 1 {
		t.Fatalf("len(stations) = %d, want 1", len(cfg.Stations))
	}
	st := cfg.Stations[0]
	if st.Name != "madeira_beach" || st.ShortName != "madbeach" || !st.RawSegment || !st.Enabled {
		t.Errorf("station = %+v", st)
	}
}

func TestStationConvention(t *testing.T) {
	st := StationTemplate("dorado", "dorado")
	conv := st.Convention()
	want := naming.Convention{
		Station:     "dorado",
		ShortName:   "dorado",
		RawSegment:  true,
		CameraRemap: true,
		LongNames:   true,
		Walk:        naming.WalkProducts,
		Policy:      naming.PolicyRename,
	}
	if conv.Station != want.Station || conv.ShortName != want.ShortName || conv.RawSegment != want.RawSegment ||
		conv.CameraRemap != want.CameraRemap || conv.LongNames != want.LongNames || conv.Walk != want.Walk || conv.Policy != want.Policy {
		t.Errorf("Convention() = %+v, want %+v", conv, want)
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	pathStyle := true
	cfg := &Config{
		Workers: 4,
		S3: &S3Config{
			Endpoint:  "https://127.0.0.1:9000",
			Bucket:    "test",
			Prefix:    "coastcam",
			AccessKey: "key",
			SecretKey: "secret",
			PathStyle: &pathStyle,
		},
		Audit: &AuditConfig{Dir: "/tmp/audit", Upload: true, Compression: "zstd", Retention: &RetentionConfig{Days: 30}},
		Stations: []StationConfig{
			*StationTemplate("caco-01", "caco-01"),
			*StationTemplate("islaverde", "islaverde"),
		},
	}
	if err := Write(cfg, path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	v, err := LoadFile(path, true)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	loaded, err := Unmarshal(v)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if err := Validate(loaded); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if loaded.S3 == nil || loaded.S3.Bucket != "test" || !S3PathStyle(loaded.S3) {
		t.Errorf("s3 = %+v", loaded.S3)
	}
	if loaded.Audit == nil || loaded.Audit.Compression != "zstd" || loaded.Audit.Retention.Days != 30 {
		t.Errorf("audit = %+v", loaded.Audit)
	}
	caco := loaded.Station("caco-01")
	if caco == nil || caco.Tally == nil || len(caco.Tally.Cameras) != 2 || caco.Tally.Schedule.At != "20:00" {
		t.Errorf("caco-01 = %+v", caco)
	}
	isla := loaded.Station("islaverde")
	if isla == nil || isla.Alert == nil || isla.Alert.WindowMinutes != 60 {
		t.Errorf("islaverde = %+v", isla)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"), false)
	if err == nil {
		t.Fatal("LoadFile on a missing file should fail")
	}
}

func TestLoadFile_PermissiveMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("workers: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path, true); err == nil {
		t.Error("0644 config should be rejected when checking permissions")
	}
	if _, err := LoadFile(path, false); err != nil {
		t.Errorf("LoadFile without permission check: %v", err)
	}
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/from-env.yaml")
	if got := ResolveConfigPath(); got != "/tmp/from-env.yaml" {
		t.Errorf("ResolveConfigPath = %q", got)
	}
	SetPathOverride("/tmp/flag.yaml")
	defer SetPathOverride("")
	if got := ResolveConfigPath(); got != "/tmp/flag.yaml" {
		t.Errorf("ResolveConfigPath with override = %q", got)
	}
}

func TestStationTemplate(t *testing.T) {
	for _, name := range StationTemplateNames() {
		t.Run(name, func(t *testing.T) {
			st := StationTemplate(name, "x")
			if st == nil {
				t.Fatalf("StationTemplate(%q) = nil", name)
			}
			if st.Name != "x" {
				t.Errorf("Name = %q", st.Name)
			}
			if err := ValidateStation(st); err != nil {
				t.Errorf("template %q does not validate: %v", name, err)
			}
		})
	}
	if StationTemplate("invalid", "x") != nil {
		t.Error("unknown template should be nil")
	}
}

func TestNotificationsEnabled(t *testing.T) {
	off := false
	if NotificationsEnabled(nil) {
		t.Error("nil should be disabled")
	}
	if !NotificationsEnabled(&NotificationsConfig{Email: &EmailConfig{Enabled: true}}) {
		t.Error("enabled email should enable notifications")
	}
	if NotificationsEnabled(&NotificationsConfig{Enabled: &off, Discord: &DiscordConfig{Enabled: true}}) {
		t.Error("explicit enabled=false should win")
	}
}
