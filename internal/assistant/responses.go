package assistant

import (
	"context"
	"strings"
)

// Responder answers a normalized user message. ok is false when it has nothing to say.
type Responder interface {
	Respond(ctx context.Context, input string) (reply string, ok bool)
}

const (
	defaultReply            = "Sorry, I didn't understand. Try asking about the menu, ordering, or type 'help' for assistance!"
	unknownIngredientsReply = "I don't have ingredient details for that dish. Try asking about Chicken Biryani, Pizza, or another menu item!"
	unknownWithoutReply     = "We can try to prepare a dish without that ingredient. Please mention it in your order comments!"
)

var defaultResponses = map[string]string{
	"what are today's special dishes":                     "Today's specials are Chicken Biryani and Pizza! Send /add Pizza to put one in your cart.",
	"do you have any vegan options":                       "Yes: Margherita, Lentil Curry and Aloo Gobi are vegan. Send /menu to see prices.",
	"do you have any gluten-free options":                 "Lentil Curry, Aloo Gobi and Mushroom Risotto are gluten-free.",
	"do you have any keto options":                        "Pepperoni and Salmon Grilled are keto-friendly.",
	"can i see the full menu":                             "Sure! Send /menu for the full list with prices.",
	"what ingredients are used in chicken biryani":        "Chicken Biryani includes basmati rice, chicken, tomato and spices like turmeric, cumin and coriander.",
	"what ingredients are used in mutton biryani":         "Mutton Biryani includes basmati rice, mutton, tomato and spices like cloves, cardamom and cinnamon.",
	"what ingredients are used in pizza":                  "Our Pizza has a wheat crust, tomato sauce and mozzarella cheese.",
	"what ingredients are used in burger":                 "The Burger has a beef patty, tomato and a wheat bun.",
	"what ingredients are used in pepperoni":              "Pepperoni is made with pork, beef, paprika, garlic and other spices.",
	"what ingredients are used in margherita":             "Margherita has a wheat crust, tomato sauce and fresh basil.",
	"do you offer organic or locally sourced ingredients": "We source some ingredients locally, like vegetables and spices. Not every item is organic.",
	"how do i place an order":                             "Add dishes with /add <item>, check them with /cart, then send /order.",
	"can i customize my order":                            "We don't support customizations in the app yet. Mention special requests when you order and we'll do our best!",
	"what are the payment options":                       "We accept Credit/Debit cards, UPI, and Cash on Delivery.",
	"do you offer home delivery":                          "Yes! Delivery usually takes 30-45 minutes depending on your location.",
	"what is the estimated delivery time":                 "Estimated delivery time is 30-45 minutes after placing your order.",
	"can i schedule an order for later":                   "We don't take orders for later yet, but /schedule can plan today's meals around your free time.",
	"what are your opening hours":                         "We're open from 10 AM to 10 PM daily.",
	"where are you located":                               "We're at 123 Foodie Lane, Gourmet City.",
	"do you have dine-in options":                         "Yes, visit us at 123 Foodie Lane, Gourmet City, between 10 AM and 10 PM.",
	"do you have any special offers or discounts":         "No special offers right now, but every item you order earns a loyalty point!",
	"do you have nut-free options":                        "Most dishes are nut-free, but Pizza and Burger may contain nuts. Please tell us about severe allergies.",
	"do you have dairy-free options":                      "Pizza, Margherita and Mushroom Risotto contain dairy. Lentil Curry and Aloo Gobi are dairy-free.",
	"can i get a dish without cheese":                     "We can try to prepare Pizza or Burger without cheese if you mention it when ordering.",
	"can i get a dish without onions":                     "Yes, the biryanis can be prepared without onions on request.",
	"i have a problem with my order":                      "Sorry to hear that! Email support@spendeats.com with your order details and we'll help right away.",
	"how do i cancel or modify my order":                  "Contact support@spendeats.com as soon as possible and we'll do our best to help.",
	"how do i leave a review or give feedback":            "Send /review <item> | <rating 1-5> | <comment>. Each review earns 2 loyalty points!",
	"how do i write a review":                             "Send /review <item> | <rating 1-5> | <comment>. Each review earns 2 loyalty points!",
	"do you have a loyalty program":                       "Yes! You earn 1 point per item added and 2 points per review. Reach 10 points for Bronze, 25 for Silver and 50 for Gold.",
	"how do i redeem my reward points":                    "You can spend 10 points to change your monthly spending limit.",
	"are there any special promotions for members":        "Not at the moment, but members earn badges and points with every order.",
	"how do i track my meals":                             "Send /log <item> <quantity>, then /nutrition for your totals.",
	"show me low-carb recipes":                            "Low-carb picks: Pepperoni, Paneer Tikka and Salmon Grilled.",
	"show me keto recipes":                                "Keto picks: Pepperoni and Salmon Grilled.",
	"show me high-protein recipes":                        "High-protein picks: Chicken Biryani, Mutton Biryani, Lentil Curry and Salmon Grilled.",
	"show me vegetarian recipes":                          "Vegetarian picks: Margherita, Lentil Curry, Paneer Tikka, Aloo Gobi and Mushroom Risotto.",
	"show me vegan recipes":                               "Vegan picks: Margherita, Lentil Curry and Aloo Gobi.",
	"hello":                                               "Hi! How can I help you with SpendEATS today?",
	"help":                                                "I can help with the menu, ordering, delivery, dietary needs, the loyalty program, your spending limit, reviews, diet plans and nutrition tracking. What would you like to know?",
	"bye":                                                 "Goodbye! Visit SpendEATS again soon!",
}

// StaticResponder answers from a fixed table keyed on normalized questions.
type StaticResponder struct {
	table map[string]string
}

// NewStaticResponder returns a responder over table, or the built-in table when nil.
func NewStaticResponder(table map[string]string) *StaticResponder {
	if table == nil {
		table = defaultResponses
	}
	return &StaticResponder{table: table}
}

func (r *StaticResponder) Respond(_ context.Context, input string) (string, bool) {
	if i := strings.Index(input, "ingredients are used in "); i >= 0 {
		dish := strings.TrimSpace(input[i+len("ingredients are used in "):])
		if reply, ok := r.table["what ingredients are used in "+dish]; ok {
			return reply, true
		}
		return unknownIngredientsReply, true
	}
	if strings.Contains(input, "can i get a dish without") {
		_, ingredient, _ := strings.Cut(input, "can i get a dish without")
		ingredient = strings.TrimSpace(ingredient)
		if reply, ok := r.table["can i get a dish without "+ingredient]; ok {
			return reply, true
		}
		return unknownWithoutReply, true
	}
	reply, ok := r.table[input]
	return reply, ok
}

// Normalize lower-cases input, collapses whitespace and drops trailing punctuation.
func Normalize(input string) string {
	s := strings.ToLower(strings.Join(strings.Fields(input), " "))
	return strings.TrimRight(s, "?!. ")
}
