package classifier

import "strings"

const (
	MerchCatalog = "Here's our current Combain merchandise catalog:\n\n" +
		"👕 Combain AI Tee – $25 (S to XXL, black or white)\n" +
		"🧢 Combain Cap – $18\n" +
		"☕ \"Powered by AI\" Mug – $12\n" +
		"🎒 Combain Laptop Backpack – $45\n" +
		"📓 Prompt Engineering Notebook – $9\n\n" +
		"Tell me which item you're interested in and I'll help you with the order!"

	Recommendations = "Happy to help you choose! 😊\n\n" +
		"• Just getting started? The AI Customer Service Chatbot covers Telegram, WhatsApp and your website.\n" +
		"• Lots of reviews to read? Customer Sentiment Analysis turns them into clear insights.\n" +
		"• Busy inbox? Personalized Gmail Responses draft quick, tailored replies.\n\n" +
		"For a gift, the Combain Laptop Backpack is our most popular merch item."

	CompanyDescription = "Combain offers advanced AI-powered solutions to enhance customer engagement and business efficiency:\n\n" +
		"✅ **AI Customer Service Chatbot** – 24/7 support on Telegram, WhatsApp, and your website specifically for your business needs.\n" +
		"✅ **Customer Sentiment Analysis** – Get real-time insights from reviews to fine-tune services and products.\n" +
		"✅ **Personalized Gmail Responses** – Tailored, quick replies to customer inquiries.\n" +
		"✅ **Custom AI Training** – Empower your team with hands-on AI skills.\n" +
		"✅ **Continuous AI Support** – Ongoing tech assistance and service updates.\n\n" +
		"Would you like to learn more about any of these features? 😊"
)

type cannedReply struct {
	keywords []string
	reply    string
}

// Order matters: the first entry with a matching keyword wins.
var cannedReplies = []cannedReply{
	{
		keywords: []string{"what does combain do", "tell me about combain", "what services does combain provide"},
		reply:    CompanyDescription,
	},
	{
		keywords: []string{"merch", "catalog", "catalogue"},
		reply:    MerchCatalog,
	},
	{
		keywords: []string{"recommend", "suggestion"},
		reply:    Recommendations,
	},
}

// Canned looks text up in the keyword table. It never calls the generative API.
func Canned(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, c := range cannedReplies {
		if containsAny(lower, c.keywords) {
			return c.reply, true
		}
	}
	return "", false
}
