package intel

import (
	"testing"
)

func TestExtractUPIHandle(t *testing.T) {
	e := NewExtractor()

	set := e.Extract("Send ₹500 to scammer@paytm for verification")

	if len(set.UPIIDs) != 1 || set.UPIIDs[0] != "scammer@paytm" {
		t.Errorf("expected upiIds [scammer@paytm], got %v", set.UPIIDs)
	}
}

func TestExtractUPIHandleLowercased(t *testing.T) {
	e := NewExtractor()

	set := e.Extract("Pay to REFUNDS.Desk@OKICICI now")

	if len(set.UPIIDs) != 1 || set.UPIIDs[0] != "refunds.desk@okicici" {
		t.Errorf("expected lowercase handle, got %v", set.UPIIDs)
	}
}

func TestExtractBankAccounts(t *testing.T) {
	e := NewExtractor()

	testCases := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "bare account number",
			text: "Transfer to account 123456789012345",
			want: []string{"123456789012345"},
		},
		{
			name: "grouped sixteen digits",
			text: "Card 1234-5678-9012-3456 is on hold",
			want: []string{"1234567890123456"},
		},
		{
			name: "partially grouped sixteen digits",
			text: "Card 1234-56789012-3456 is on hold",
			want: []string{"1234567890123456"},
		},
		{
			name: "bare sixteen digits reported once",
			text: "Transfer to 1234567890123456 today",
			want: []string{"1234567890123456"},
		},
		{
			name: "ifsc code",
			text: "Use IFSC hdfc0001234 for the transfer",
			want: []string{"HDFC0001234"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			set := e.Extract(tc.text)
			if len(set.BankAccounts) != len(tc.want) {
				t.Fatalf("got %v, want %v", set.BankAccounts, tc.want)
			}
			for i, w := range tc.want {
				if set.BankAccounts[i] != w {
					t.Errorf("got %v, want %v", set.BankAccounts, tc.want)
				}
			}
		})
	}
}

func TestLongestMatchPrecedence(t *testing.T) {
	e := NewExtractor()

	// An 18-digit account number contains 10-digit spans; none of them may be
	// reported as phone numbers.
	set := e.Extract("My account is 123456789012345678")

	if len(set.BankAccounts) != 1 || set.BankAccounts[0] != "123456789012345678" {
		t.Errorf("expected one 18-digit account, got %v", set.BankAccounts)
	}
	if len(set.PhoneNumbers) != 0 {
		t.Errorf("18-digit run leaked into phone numbers: %v", set.PhoneNumbers)
	}
}

func TestExtractPhoneNumbers(t *testing.T) {
	e := NewExtractor()

	testCases := []struct {
		name      string
		text      string
		wantPhone string
	}{
		{
			name:      "international form",
			text:      "Call +91-9876543210 immediately",
			wantPhone: "+91-9876543210",
		},
		{
			name:      "bare ten digits",
			text:      "WhatsApp me on 9876543210",
			wantPhone: "9876543210",
		},
		{
			name:      "trunk-prefix eleven digits",
			text:      "Call me back on 09876543210 before 5pm",
			wantPhone: "09876543210",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			set := e.Extract(tc.text)
			found := false
			for _, p := range set.PhoneNumbers {
				if p == tc.wantPhone {
					found = true
				}
			}
			if !found {
				t.Errorf("expected %q in %v", tc.wantPhone, set.PhoneNumbers)
			}
		})
	}
}

func TestIntlCountryCodeNotReReported(t *testing.T) {
	e := NewExtractor()

	set := e.Extract("Call +91 9876543210 now")

	if len(set.PhoneNumbers) != 1 {
		t.Errorf("expected exactly one phone number, got %v", set.PhoneNumbers)
	}
}

func TestExtractLinks(t *testing.T) {
	e := NewExtractor()

	set := e.Extract("Verify at https://sbi-kyc.xyz/login or www.refund-portal.in and claim-prize.top")

	want := map[string]bool{
		"https://sbi-kyc.xyz/login": true,
		"www.refund-portal.in":      true,
		"claim-prize.top":           true,
	}
	for _, link := range set.PhishingLinks {
		if !want[link] {
			t.Errorf("unexpected link capture %q", link)
		}
		delete(want, link)
	}
	for missing := range want {
		t.Errorf("link %q not extracted", missing)
	}
}

func TestFullURLNotSplitIntoDomain(t *testing.T) {
	e := NewExtractor()

	set := e.Extract("Go to https://evil.xyz/verify")

	if len(set.PhishingLinks) != 1 || set.PhishingLinks[0] != "https://evil.xyz/verify" {
		t.Errorf("URL should be captured once as matched, got %v", set.PhishingLinks)
	}
}

func TestExtractKeywordsLowercase(t *testing.T) {
	e := NewExtractor()

	set := e.Extract("URGENT: your account is BLOCKED, verify now")

	want := map[string]bool{"urgent": true, "account": true, "blocked": true, "verify": true}
	for _, kw := range set.SuspiciousKeywords {
		delete(want, kw)
	}
	for missing := range want {
		t.Errorf("keyword %q not extracted", missing)
	}
}

func TestExtractEmptyText(t *testing.T) {
	e := NewExtractor()

	set := e.Extract("")
	if !set.IsEmpty() {
		t.Errorf("empty text should yield an empty set, got %+v", set)
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	e := NewExtractor()

	var cumulative IndicatorSet
	first := e.Extract("Send to scammer@paytm, call 9876543210")
	second := e.Extract("Reminder: send to SCAMMER@PAYTM, call 9876543210")

	added := cumulative.Merge(first)
	if added != first.Total() {
		t.Errorf("first merge added %d, want %d", added, first.Total())
	}

	before := cumulative.Total()
	cumulative.Merge(second)

	// The same UPI handle (case folded) and phone number must not appear twice.
	if len(cumulative.UPIIDs) != 1 {
		t.Errorf("duplicate UPI handle after merge: %v", cumulative.UPIIDs)
	}
	if len(cumulative.PhoneNumbers) != 1 {
		t.Errorf("duplicate phone number after merge: %v", cumulative.PhoneNumbers)
	}
	if cumulative.Total() < before {
		t.Errorf("merge shrank the set: %d -> %d", before, cumulative.Total())
	}
}

func TestMergePreservesFirstSeenOrder(t *testing.T) {
	var cumulative IndicatorSet

	cumulative.Merge(IndicatorSet{SuspiciousKeywords: []string{"urgent", "otp"}})
	cumulative.Merge(IndicatorSet{SuspiciousKeywords: []string{"otp", "verify"}})

	want := []string{"urgent", "otp", "verify"}
	if len(cumulative.SuspiciousKeywords) != len(want) {
		t.Fatalf("got %v, want %v", cumulative.SuspiciousKeywords, want)
	}
	for i, w := range want {
		if cumulative.SuspiciousKeywords[i] != w {
			t.Errorf("got %v, want %v", cumulative.SuspiciousKeywords, want)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	original := IndicatorSet{UPIIDs: []string{"a@paytm"}}
	clone := original.Clone()

	clone.Merge(IndicatorSet{UPIIDs: []string{"b@paytm"}})

	if len(original.UPIIDs) != 1 {
		t.Errorf("mutating a clone changed the original: %v", original.UPIIDs)
	}
}
