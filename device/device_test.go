package device

import "testing"

func TestCoarseType(t *testing.T) {
	cases := []struct {
		info Info
		want string
	}{
		{Info{Platform: Android}, "a2"},
		{Info{Platform: IOS}, "i2"},
		{Info{Platform: Web}, "w2"},
		{Info{}, "w2"},
	}
	for _, c := range cases {
		if got := c.info.CoarseType(); got != c.want {
			t.Errorf("CoarseType(%q) = %q, want %q", c.info.Platform, got, c.want)
		}
	}
}

func TestFromUserAgent(t *testing.T) {
	cases := []struct {
		ua       string
		platform Platform
	}{
		{
			"Mozilla/5.0 (Linux; Android 12; Pixel 6 Pro) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.5735.196 Mobile Safari/537.36",
			Android,
		},
		{
			"Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1",
			IOS,
		},
		{
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
			Web,
		},
	}
	for _, c := range cases {
		info := FromUserAgent(c.ua)
		if info.Platform != c.platform {
			t.Errorf("FromUserAgent(%q).Platform = %q, want %q", c.ua, info.Platform, c.platform)
		}
		if info.OSVersion == "" {
			t.Errorf("FromUserAgent(%q) returned empty OS version", c.ua)
		}
	}
}

func TestHost(t *testing.T) {
	info := Host()
	if info.Platform == "" {
		t.Error("host platform must not be empty")
	}
	if got := info.CoarseType(); got == "" {
		t.Error("coarse type must not be empty")
	}
}
