package handlers

import "fmt"

const (
	txtGreeting = "Hello! Thanks for reaching out. How can I assist you today?"

	txtHelp = "I'm here to assist you! You can use the following commands:\n" +
		"/start - Start the bot\n" +
		"/help - Get help\n" +
		"/about - Learn more about this bot\n" +
		"/enquire - Ask a specific question\n" +
		"/contact - Get our contact information\n" +
		"/authors - Meet the developers\n" +
		"/merch - Browse our merchandise\n" +
		"/complain - Tell us about a problem\n" +
		"/promotions - See this week's promotion"

	txtAbout = "This bot is powered by Gemini AI and developed by the Combain team to support small businesses " +
		"with customer inquiries. Feel free to ask anything, and I'll be happy to assist!"

	txtEnquire = "Please enter your enquiry, and I'll do my best to assist you promptly!"

	txtContact = "You can reach us at **CombainAi@gmail.com** for any further inquiries or support. 📧"

	txtAuthors = "Meet the developers behind this bot:\n\n" +
		"👨‍💻 **Melson**\n" +
		"🔗 LinkedIn: [Your LinkedIn](https://www.linkedin.com/in/melson-wang/)\n" +
		"🐙 GitHub: [Your GitHub](https://github.com/Melsonwang1)\n\n" +
		"👨‍💻 **Noel**\n" +
		"🔗 LinkedIn: [Friend 1 LinkedIn](https://www.linkedin.com/in/noelngzhien/)\n" +
		"🐙 GitHub: [Friend 1 GitHub](https://github.com/retartle)\n\n" +
		"👨‍💻 **Julian**\n" +
		"🔗 LinkedIn: [Friend 2 LinkedIn](https://www.linkedin.com/in/julian-goh-286b1b272/)\n"

	txtAskDetails = "I'm sorry to hear that. Please describe your complaint in detail and I'll pass it on to our team."

	txtConfirm = "Thank you for letting us know. Your complaint has been forwarded to our team (ref %s) and we'll get back to you soon."

	txtClarify = "It looks like your message isn't a complaint. Could you tell me a bit more about how I can help? " +
		"If you do want to file a complaint, send /complain."

	txtResend = "Sorry, I couldn't pass your complaint on to our team just now. Please send the details again in a moment."
)

func confirmText(ref string) string {
	return fmt.Sprintf(txtConfirm, ref)
}
