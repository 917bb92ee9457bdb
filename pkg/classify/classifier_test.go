package classify

import (
	"testing"

	"github.com/trapline/trapline/pkg/patterns"
)

func TestClassifyScamMessages(t *testing.T) {
	c := New()

	testCases := []struct {
		name     string
		text     string
		category patterns.Category
	}{
		{
			name:     "bank blocking threat",
			text:     "Your bank account will be blocked today. Verify immediately.",
			category: patterns.CategoryBankFraud,
		},
		{
			name:     "upi payment lure",
			text:     "Send ₹500 to scammer@paytm for verification",
			category: patterns.CategoryUPIFraud,
		},
		{
			name:     "phishing link",
			text:     "Click the link to verify your details: http://kyc-update.xyz",
			category: patterns.CategoryPhishing,
		},
		{
			name:     "lottery win",
			text:     "Congratulations! You are the lucky winner of our mega lottery",
			category: patterns.CategoryFakeOffer,
		},
		{
			name:     "police impersonation",
			text:     "This is the police. A warrant has been issued and legal action will follow.",
			category: patterns.CategoryImpersonation,
		},
		{
			name:     "otp solicitation",
			text:     "Share the OTP 123456 before it expires",
			category: patterns.CategoryOTPFraud,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := c.Classify(tc.text)
			if result.Category != tc.category {
				t.Errorf("got %s (confidence %d, matched %v), want %s",
					result.Category, result.Confidence, result.Matched, tc.category)
			}
			if result.Confidence <= 0 {
				t.Errorf("expected positive confidence, got %d", result.Confidence)
			}
			t.Logf("%s scored %d via %v", result.Category, result.Confidence, result.Matched)
		})
	}
}

func TestClassifyBenignMessage(t *testing.T) {
	c := New()

	result := c.Classify("Hello, how are you?")
	if result.Category != patterns.CategoryNone {
		t.Errorf("expected none, got %s (matched %v)", result.Category, result.Matched)
	}
	if result.Confidence != 0 {
		t.Errorf("expected zero confidence, got %d", result.Confidence)
	}
}

func TestClassifyEmptyMessage(t *testing.T) {
	c := New()

	result := c.Classify("")
	if result.Category != patterns.CategoryNone || result.Confidence != 0 {
		t.Errorf("empty text should be a zero-value none result, got %+v", result)
	}
}

func TestTieBreakPrefersBankFraud(t *testing.T) {
	c := New()

	// "account" scores +1 in bank_fraud, "payment" scores +1 in upi_fraud.
	// Equal nonzero scores must always resolve to the higher-severity category.
	for i := 0; i < 10; i++ {
		result := c.Classify("account payment")
		if result.Category != patterns.CategoryBankFraud {
			t.Fatalf("tie should resolve to bank_fraud, got %s", result.Category)
		}
	}
}

func TestRepetitionDoesNotInflateScore(t *testing.T) {
	c := New()

	once := c.Classify("urgent: verify your bank account")
	thrice := c.Classify("urgent urgent urgent: verify verify your bank account account")

	if once.Confidence != thrice.Confidence {
		t.Errorf("repeated substrings inflated score: %d vs %d", once.Confidence, thrice.Confidence)
	}
}

func TestFullwidthEvasionIsFolded(t *testing.T) {
	c := New()

	plain := c.Classify("share the otp now")
	evaded := c.Classify("share the ｏｔｐ now")

	if evaded.Category != plain.Category {
		t.Errorf("fullwidth text classified as %s, plain as %s", evaded.Category, plain.Category)
	}
}

func BenchmarkClassify(b *testing.B) {
	c := New()
	text := "Your bank account will be blocked today. Verify immediately at http://kyc-update.xyz"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Classify(text)
	}
}
