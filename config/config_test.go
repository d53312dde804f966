package config

import "testing"

func TestParsePrivilegedAccounts(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []SeedAccount
		wantErr bool
	}{
		{
			name: "explicit passwords",
			raw:  "cuong@123.com:cuong123456,linh@123.com:linh123456",
			want: []SeedAccount{
				{Email: "cuong@123.com", Password: "cuong123456"},
				{Email: "linh@123.com", Password: "linh123456"},
			},
		},
		{
			name: "derived password from mailbox",
			raw:  "alice@example.com",
			want: []SeedAccount{
				{Email: "alice@example.com", Password: "alice123456"},
			},
		},
		{
			name: "whitespace and empty entries skipped",
			raw:  " bob@example.com:pw , ,",
			want: []SeedAccount{
				{Email: "bob@example.com", Password: "pw"},
			},
		},
		{
			name: "empty string yields no accounts",
			raw:  "",
			want: nil,
		},
		{
			name:    "entry without an at sign",
			raw:     "notanemail:pw",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePrivilegedAccounts(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePrivilegedAccounts() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d accounts, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("account[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMaxUploadBytes(t *testing.T) {
	c := Config{MaxUploadMB: 100}
	if got := c.MaxUploadBytes(); got != 100<<20 {
		t.Errorf("MaxUploadBytes() = %d, want %d", got, int64(100<<20))
	}
}
