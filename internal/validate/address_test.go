package validate

import (
	"testing"
)

func TestParseIPv4(t *testing.T) {
	tests := []struct {
		input   string
		want    IPv4Address
		wantErr bool
	}{
		{"192.168.1.1", IPv4Address{192, 168, 1, 1}, false},
		{"0.0.0.0", IPv4Address{0, 0, 0, 0}, false},
		{"255.255.255.255", IPv4Address{255, 255, 255, 255}, false},
		{"010.001.000.007", IPv4Address{10, 1, 0, 7}, false},
		{"not.an.ip", IPv4Address{}, true},
		{"1.2.3", IPv4Address{}, true},
		{"1.2.3.4.5", IPv4Address{}, true},
		{"1.2.3.256", IPv4Address{}, true},
		{"1.2..4", IPv4Address{}, true},
		{"-1.2.3.4", IPv4Address{}, true},
		{"+1.2.3.4", IPv4Address{}, true},
		{" 1.2.3.4", IPv4Address{}, true},
		{"1.2.3.0x4", IPv4Address{}, true},
		{"", IPv4Address{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseIPv4(tt.input)
			if tt.wantErr {
				if !IsAddressFormat(err) {
					t.Errorf("ParseIPv4(%q) error = %v, want ErrAddressFormat", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseIPv4(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseIPv4(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseAddressPair(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		src     string
		dst     string
		wantErr bool
	}{
		{"space separated", "192.168.1.1 192.168.1.2", "192.168.1.1", "192.168.1.2", false},
		{"trailing newline", "10.0.0.1 10.0.0.2\n", "10.0.0.1", "10.0.0.2", false},
		{"newline separated", "\t10.0.0.1\n10.0.0.2\r\n", "10.0.0.1", "10.0.0.2", false},
		{"single address", "10.0.0.1", "", "", true},
		{"three addresses", "10.0.0.1 10.0.0.2 10.0.0.3", "", "", true},
		{"empty", "", "", "", true},
		{"bad destination", "10.0.0.1 host.example", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, dst, err := ParseAddressPair(tt.text)
			if tt.wantErr {
				if !IsAddressFormat(err) {
					t.Errorf("ParseAddressPair(%q) error = %v, want ErrAddressFormat", tt.text, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAddressPair(%q) error = %v", tt.text, err)
			}
			if src.String() != tt.src || dst.String() != tt.dst {
				t.Errorf("ParseAddressPair(%q) = %s, %s, want %s, %s", tt.text, src, dst, tt.src, tt.dst)
			}
		})
	}
}
