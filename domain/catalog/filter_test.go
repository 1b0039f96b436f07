package catalog_test

import (
	"testing"

	"github.com/roamsim/storefront/domain/catalog"
	"github.com/roamsim/storefront/domain/pricing"
)

func TestIsTopup(t *testing.T) {
	tests := []struct {
		name string
		pkg  catalog.Package
		want bool
	}{
		{"plain plan", catalog.Package{Slug: "discover-5gb", Title: "Discover 5GB"}, false},
		{"type flag", catalog.Package{Type: catalog.TypeTopup}, true},
		{"slug marker", catalog.Package{Slug: "discover-5gb-topup"}, true},
		{"title marker hyphen", catalog.Package{Title: "Discover Top-Up 5GB"}, true},
		{"title marker space", catalog.Package{Title: "Discover top up 5GB"}, true},
		{"description marker", catalog.Package{Description: "TOPUP for existing eSIM"}, true},
		{"cyrillic title", catalog.Package{TitleRU: "Пополнение 5ГБ"}, true},
		{"cyrillic short", catalog.Package{Title: "Топап Европа"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := catalog.IsTopup(tt.pkg); got != tt.want {
				t.Errorf("IsTopup = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEligible_DataFloor(t *testing.T) {
	tests := []struct {
		name string
		pkg  catalog.Package
		want bool
	}{
		{"exactly 1GB passes", catalog.Package{DataMB: 1024}, true},
		{"below floor rejected", catalog.Package{DataMB: 1023}, false},
		{"500MB rejected", catalog.Package{DataMB: 500}, false},
		{"unlimited always passes", catalog.Package{Unlimited: true}, true},
		{"unlimited with zero mb passes", catalog.Package{Unlimited: true, DataMB: 0}, true},
		{"zero mb without flag rejected", catalog.Package{DataMB: 0}, false},
		{"free-text fallback passes", catalog.Package{DataText: "2048 MB"}, true},
		{"free-text below floor rejected", catalog.Package{DataText: "512"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := catalog.Eligible(tt.pkg); got != tt.want {
				t.Errorf("Eligible = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_ExcludesTopupsRegardlessOfSize(t *testing.T) {
	rows := []catalog.Package{
		{ID: "1", Slug: "discover-5gb", DataMB: 5120, Prices: pricing.Amounts{USD: pricing.Ptr(10)}},
		{ID: "2", Slug: "discover-5gb-topup", DataMB: 5120, Prices: pricing.Amounts{USD: pricing.Ptr(1)}},
		{ID: "3", Slug: "mini-500mb", DataMB: 500},
	}

	got := catalog.Filter(rows)

	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("Filter kept %d rows, want only row 1, got %+v", len(got), got)
	}
}

func TestTopups(t *testing.T) {
	rows := []catalog.Package{
		{ID: "1", Slug: "discover-5gb"},
		{ID: "2", Slug: "discover-5gb-topup"},
		{ID: "3", Type: catalog.TypeTopup, Slug: "refill-1gb"},
	}

	got := catalog.Topups(rows)

	if len(got) != 2 {
		t.Fatalf("Topups = %d rows, want 2", len(got))
	}
	if got[0].ID != "2" || got[1].ID != "3" {
		t.Errorf("Topups order = %s,%s, want 2,3", got[0].ID, got[1].ID)
	}
}

func TestCountryCodes_Expansion(t *testing.T) {
	p := catalog.Package{CountryCode: "NO, rs,DE"}

	got := p.CountryCodes()

	want := []string{"NO", "RS", "DE"}
	if len(got) != len(want) {
		t.Fatalf("CountryCodes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CountryCodes[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestScope(t *testing.T) {
	tests := []struct {
		name string
		pkg  catalog.Package
		want string
	}{
		{"local", catalog.Package{Type: catalog.TypeLocal, CountryCode: "fr"}, "FR"},
		{"global", catalog.Package{Type: catalog.TypeGlobal}, "GL"},
		{"regional", catalog.Package{Type: catalog.TypeRegional}, "RG"},
		{"regional with operator", catalog.Package{Type: catalog.TypeRegional, Operator: "eurolink"}, "RG:eurolink"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pkg.Scope(); got != tt.want {
				t.Errorf("Scope = %q, want %q", got, tt.want)
			}
		})
	}
}
