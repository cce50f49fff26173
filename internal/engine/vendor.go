package engine

import "github.com/akilivoice/pathrag/pkg/domain"

// vendorKeywords maps spoken brand references to vendor ids. Checked in a
// fixed order so overlapping utterances resolve deterministically.
var vendorKeywords = []struct {
	vendorID string
	phrases  []string
}{
	{"tplink", []string{"tplink", "tp-link", "tp link", "archer", "mr600", "deco"}},
	{"netgear", []string{"netgear", "nighthawk", "orbi"}},
	{"dlink", []string{"dlink", "d-link", "d link"}},
	{"asus", []string{"asus", "zenwifi"}},
}

// DetectVendor maps an utterance describing the router brand to a vendor
// profile. Unrecognized brands fall back to the generic profile so the
// flow continues with neutral gateway and LED vocabulary.
func DetectVendor(utterance string) domain.VendorProfile {
	normalized := Normalize(utterance)
	for _, vk := range vendorKeywords {
		for _, p := range vk.phrases {
			if containsPhrase(normalized, p) {
				return domain.VendorProfileByID(vk.vendorID)
			}
		}
	}
	return domain.VendorProfileByID(domain.GenericVendorID)
}
