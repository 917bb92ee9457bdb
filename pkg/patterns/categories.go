package patterns

// =============================================================================
// SCAM SIGNAL DEFINITIONS BY CATEGORY
// All patterns and trigger lexicons are registered here and compiled once.
// Regexes catch phrase-level scam constructions; triggers catch bare words
// that individually carry weight. Each signal scores at most once per message.
// =============================================================================

// --- BANK FRAUD ---
func (r *Registry) registerBankFraudPatterns() {
	cat := CategoryBankFraud

	r.register("account_threat", `bank account.{0,40}(blocked|suspended|frozen)`, cat, 4, "Account blocking threat")
	r.register("verify_demand", `verify.{0,30}(account|identity|details)`, cat, 3, "Verification demand")
	r.register("account_closed", `account.{0,30}(deactivated|locked|closed)`, cat, 3, "Account closure threat")
	r.register("kyc_update", `update.{0,30}(kyc|pan|aadhaa?r)`, cat, 3, "KYC/document update lure")
	r.register("unauthorized_txn", `unauthori[sz]ed.{0,30}transaction`, cat, 3, "Unauthorized transaction alert")

	r.trigger(cat, "blocked", 3)
	r.trigger(cat, "suspended", 3)
	r.trigger(cat, "frozen", 3)
	r.trigger(cat, "kyc", 3)
	r.trigger(cat, "verify", 2)
	r.trigger(cat, "urgent", 2)
	r.trigger(cat, "immediately", 2)
	r.trigger(cat, "bank", 1)
	r.trigger(cat, "account", 1)
}

// --- UPI FRAUD ---
func (r *Registry) registerUPIFraudPatterns() {
	cat := CategoryUPIFraud

	r.register("upi_blocked", `upi.{0,30}(blocked|suspended)`, cat, 4, "UPI blocking threat")
	r.register("upi_id_request", `share.{0,30}upi.{0,20}id`, cat, 3, "UPI ID solicitation")
	r.register("money_for_verify", `send.{0,30}(money|rs|₹).{0,40}verif`, cat, 3, "Payment-for-verification lure")
	r.register("payment_pending", `payment.{0,20}pending`, cat, 2, "Pending payment pressure")
	r.register("upi_refund", `refund.{0,30}upi`, cat, 3, "UPI refund lure")
	r.register("upi_handle", `\b[\w.\-]+@(paytm|phonepe|gpay|upi|ybl|oksbi|okaxis|okicici|okhdfcbank|okbizaxis|ibl|axl)\b`, cat, 3, "UPI payment handle present")

	r.trigger(cat, "upi", 3)
	r.trigger(cat, "paytm", 2)
	r.trigger(cat, "phonepe", 2)
	r.trigger(cat, "gpay", 2)
	r.trigger(cat, "cashback", 2)
	r.trigger(cat, "refund", 2)
	r.trigger(cat, "payment", 1)
	r.trigger(cat, "transfer", 1)
}

// --- PHISHING ---
func (r *Registry) registerPhishingPatterns() {
	cat := CategoryPhishing

	r.register("click_to_verify", `click.{0,30}link.{0,30}(verify|update|confirm)`, cat, 4, "Click-link-to-verify lure")
	r.register("urgent_download", `download.{0,30}app.{0,20}urgent`, cat, 3, "Urgent app download")
	r.register("install_cert", `install.{0,30}certificate`, cat, 3, "Certificate install lure")
	r.register("urgent_login", `log\s?in.{0,30}(immediately|now|urgent)`, cat, 3, "Urgent login demand")
	r.register("password_reset", `reset.{0,20}password.{0,30}click`, cat, 3, "Password reset via link")
	r.register("bare_link", `https?://\S+|www\.\S+`, cat, 3, "Bare link present")

	r.trigger(cat, "click here", 3)
	r.trigger(cat, "link", 2)
	r.trigger(cat, "login", 2)
	r.trigger(cat, "download", 2)
	r.trigger(cat, "install", 2)
	r.trigger(cat, "expired", 2)
	r.trigger(cat, "update", 1)
}

// --- FAKE OFFERS ---
func (r *Registry) registerFakeOfferPatterns() {
	cat := CategoryFakeOffer

	r.register("congrats_prize", `congratulations.{0,40}(won|winner|prize)`, cat, 4, "Congratulations-you-won lure")
	r.register("lottery_win", `lottery.{0,20}won|won.{0,20}lottery`, cat, 3, "Lottery win claim")
	r.register("claim_reward", `claim.{0,30}(prize|reward|gift)`, cat, 3, "Prize claim instruction")
	r.register("limited_offer", `limited.{0,20}time.{0,20}offer`, cat, 2, "Limited time pressure")
	r.register("exclusive_deal", `exclusive.{0,20}deal.{0,20}today`, cat, 2, "Exclusive deal pressure")

	r.trigger(cat, "congratulations", 3)
	r.trigger(cat, "winner", 3)
	r.trigger(cat, "prize", 3)
	r.trigger(cat, "lottery", 3)
	r.trigger(cat, "jackpot", 3)
	r.trigger(cat, "claim", 2)
	r.trigger(cat, "reward", 2)
	r.trigger(cat, "offer", 1)
	r.trigger(cat, "deal", 1)
}

// --- IMPERSONATION (police / government / courier) ---
func (r *Registry) registerImpersonationPatterns() {
	cat := CategoryImpersonation

	r.register("authority_threat", `(police|court|income tax|gst|cbi|customs).{0,40}(notice|penalty|arrest|case)`, cat, 4, "Authority threat")
	r.register("legal_action", `legal.{0,20}action.{0,20}against`, cat, 3, "Legal action threat")
	r.register("warrant_issued", `warrant.{0,20}issued`, cat, 3, "Arrest warrant claim")
	r.register("customs_clearance", `customs.{0,20}clearance`, cat, 2, "Customs clearance fee lure")
	r.register("govt_scheme", `government.{0,30}(refund|scheme)`, cat, 2, "Government scheme lure")

	r.trigger(cat, "police", 3)
	r.trigger(cat, "arrest", 3)
	r.trigger(cat, "warrant", 3)
	r.trigger(cat, "court", 3)
	r.trigger(cat, "legal action", 3)
	r.trigger(cat, "customs", 2)
	r.trigger(cat, "penalty", 2)
	r.trigger(cat, "tax", 2)
	r.trigger(cat, "government", 2)
	r.trigger(cat, "official", 1)
	r.trigger(cat, "department", 1)
}

// --- OTP FRAUD ---
func (r *Registry) registerOTPFraudPatterns() {
	cat := CategoryOTPFraud

	r.register("share_otp", `share.{0,20}otp`, cat, 4, "Direct OTP solicitation")
	r.register("code_for_verify", `send.{0,20}code.{0,30}verif`, cat, 3, "Verification code solicitation")
	r.register("otp_expiry", `otp.{0,20}(expire|valid)`, cat, 3, "OTP expiry pressure")
	r.register("confirmation_code", `confirmation.{0,20}code`, cat, 2, "Confirmation code request")
	r.register("security_code", `security.{0,20}code.{0,20}verify`, cat, 3, "Security code request")
	r.register("otp_digits", `\b\d{6}\b.{0,20}\botp\b|\botp\b.{0,20}\b\d{6}\b`, cat, 4, "Six-digit code adjacent to OTP")

	r.trigger(cat, "otp", 3)
	r.trigger(cat, "cvv", 3)
	r.trigger(cat, "pin", 2)
	r.trigger(cat, "code", 2)
	r.trigger(cat, "password", 2)
	r.trigger(cat, "share", 1)
}

// --- SUSPICIOUS VOCABULARY (extractor) ---
// Closed lowercase list used by the intelligence extractor for keyword
// harvesting. Matching is case-insensitive substring membership.
func (r *Registry) registerSuspiciousVocabulary() {
	r.vocabulary = []string{
		"urgent", "verify", "blocked", "suspended", "immediately", "confirm",
		"account", "bank", "upi", "payment", "transfer", "otp", "password",
		"click here", "limited time", "act now", "prize", "winner", "congratulations",
		"refund", "tax", "penalty", "arrest", "legal action", "freeze",
		"kyc", "update", "expired", "deactivated", "unauthorized", "suspicious",
		"claim", "reward", "lottery", "cashback", "offer", "deal",
		"hurry", "last chance", "final notice", "warrant", "court", "police",
		"customs", "delivery", "parcel", "courier", "security", "code",
		"pin", "cvv", "government", "official", "department", "notice",
	}
}
