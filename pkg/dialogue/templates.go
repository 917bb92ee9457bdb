package dialogue

import "github.com/trapline/trapline/pkg/session"

// DefaultLibrary returns the compiled-in template buckets. One bucket per
// (stage, persona) pair, including a neutral voice for conversations with no
// established scam category. Final-stage texts are closing statements and
// deliberately ask nothing.
func DefaultLibrary() *Library {
	lib := &Library{buckets: make(map[bucketKey][]Template)}

	// --- INITIAL: hooked, a little alarmed, inviting the pitch ---

	lib.add(session.StageInitial, session.PersonaConcernedElderly, []Template{
		{Text: "Oh no! Why will my account be blocked? I haven't done anything wrong."},
		{Text: "What? Is this a message from my bank? I'm worried now."},
		{Text: "I don't understand. Can you explain what's happening with my account?"},
		{Text: "Legal notice? What have I done wrong? Please tell me clearly."},
	})

	lib.add(session.StageInitial, session.PersonaTrustingUser, []Template{
		{Text: "My UPI is blocked? But I just used it yesterday. What happened?"},
		{Text: "Really? I won something? What prize is this?"},
		{Text: "This sounds important! What do I need to do?"},
		{Text: "Why would my account be suspended? Please tell me how to fix it."},
	})

	lib.add(session.StageInitial, session.PersonaCautiousUser, []Template{
		{Text: "I got your message. Is this urgent? What is it about?"},
		{Text: "What kind of verification is this? I want to make sure it's safe."},
		{Text: "Ok, but can you tell me more about what I need to do?"},
	})

	lib.add(session.StageInitial, session.PersonaBusyProfessional, []Template{
		{Text: "OTP? I just received one. Is this related to my account?"},
		{Text: "I got a code but I didn't request anything. What's going on?"},
		{Text: "I'm in a meeting, can you tell me quickly what this is about?"},
	})

	lib.add(session.StageInitial, personaNeutral, []Template{
		{Text: "Hello! Who is this?"},
		{Text: "Hi, I think I got your message. What is this regarding?"},
		{Text: "Sorry, I don't recognize this number. Who am I speaking with?"},
	})

	// --- PROBING: cooperative questions that pull out payment details ---

	lib.add(session.StageProbing, session.PersonaConcernedElderly, []Template{
		{Text: "Which account number do you need? I have two accounts."},
		{Text: "Should I share my savings account or current account details?"},
		{Text: "My grandson usually helps me with these things. What exactly do you need from me?"},
		{Text: "So I should transfer the money to %s, yes? Let me write that down.", Echo: EchoUPI},
	})

	lib.add(session.StageProbing, session.PersonaTrustingUser, []Template{
		{Text: "Which UPI app should I use - PhonePe, GPay, or Paytm?"},
		{Text: "How much should I send, and to which UPI ID exactly?"},
		{Text: "What's the next step? I want to do this correctly."},
		{Text: "So I just send it to %s? Tell me the exact amount.", Echo: EchoUPI},
	})

	lib.add(session.StageProbing, session.PersonaCautiousUser, []Template{
		{Text: "The link is not opening on my phone. Can you send it again?"},
		{Text: "Before I click anything, can you tell me which company you are from?"},
		{Text: "What exactly do you need from me to resolve this?"},
		{Text: "Is %s the correct website? It looks different from the official one.", Echo: EchoLink},
	})

	lib.add(session.StageProbing, session.PersonaBusyProfessional, []Template{
		{Text: "The OTP is 6 digits, right? Should I read out the whole thing?"},
		{Text: "I got several codes today. Which one do you need?"},
		{Text: "Make it quick - what number should I call you back on?"},
		{Text: "Should I call you on %s? I only have a minute.", Echo: EchoPhone},
	})

	lib.add(session.StageProbing, personaNeutral, []Template{
		{Text: "Can you give me more details? I'm not sure I understand."},
		{Text: "What exactly do you need from me?"},
		{Text: "I'm a bit confused. Can you explain step by step?"},
	})

	// --- HESITANT: doubt creeps in, demands for proof buy more turns ---

	lib.add(session.StageHesitant, session.PersonaConcernedElderly, []Template{
		{Text: "My friend said to be careful with such messages. But this is real, right?"},
		{Text: "Okay, but can I call my bank first to confirm this?"},
		{Text: "I'm a bit confused. Can you confirm you're calling from the official bank?"},
	})

	lib.add(session.StageHesitant, session.PersonaTrustingUser, []Template{
		{Text: "I want to help but I need to know this is legitimate. What's your department?"},
		{Text: "Before I send anything, can you give me your employee ID or official number?"},
		{Text: "This seems urgent but I want to be sure. What happens if I don't do this now?"},
	})

	lib.add(session.StageHesitant, session.PersonaCautiousUser, []Template{
		{Text: "I want to verify this with the official helpline first. What's your reference number?"},
		{Text: "Why does the sender address look different from the official one?"},
		{Text: "Can you send me something official in writing before I proceed?"},
	})

	lib.add(session.StageHesitant, session.PersonaBusyProfessional, []Template{
		{Text: "I'm between meetings. Can you send me something official in writing first?"},
		{Text: "My IT team says never to share codes. Why is this different?"},
		{Text: "Give me one good reason I shouldn't just call the bank directly."},
	})

	lib.add(session.StageHesitant, personaNeutral, []Template{
		{Text: "I'm still not sure what this is about. Can you confirm who you are?"},
		{Text: "This is getting confusing. Is there an official number I can call?"},
	})

	// --- FINAL: disengage with closing statements, no questions ---

	lib.add(session.StageFinal, session.PersonaConcernedElderly, []Template{
		{Text: "I'm going to check with my bank branch directly. Thank you for informing me."},
		{Text: "My son said this might be a scam. I'll verify with the bank first."},
		{Text: "I think I should visit the bank in person for this. Thanks anyway."},
	})

	lib.add(session.StageFinal, session.PersonaTrustingUser, []Template{
		{Text: "Let me consult with someone before proceeding. I'll get back to you."},
		{Text: "I'm not comfortable sharing this information online. I'll go to the branch instead."},
	})

	lib.add(session.StageFinal, session.PersonaCautiousUser, []Template{
		{Text: "I called the official helpline and they say this is fake. I'm reporting this number."},
		{Text: "I'm not comfortable continuing this over chat. I'll visit the branch myself."},
	})

	lib.add(session.StageFinal, session.PersonaBusyProfessional, []Template{
		{Text: "I'll have my bank's relationship manager handle this. Don't contact me again."},
		{Text: "I've asked our office security team to look into this. They will follow up."},
	})

	lib.add(session.StageFinal, personaNeutral, []Template{
		{Text: "I need to go now. I'll look into this later."},
		{Text: "I'll check on this and get back to you."},
	})

	return lib
}
