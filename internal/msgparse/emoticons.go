package msgparse

// Emoticon names one entry of the emoticon catalog: a canonical name, a
// display title, and the literal shorthand strings that trigger it.
type Emoticon struct {
	Name    string
	Title   string
	Strings []string
}

// EmoticonCatalog is the full Skype emoticon shorthand table, embedded
// verbatim from the original image-resource generator's EMOTICONS map
// (names, titles and trigger strings only — the binary GIFs themselves
// are out of scope for a text-mode viewer).
var EmoticonCatalog = []Emoticon{
	{"angel", "Angel", []string{"(angel)"}},
	{"angry", "Angry", []string{":@", ":-@", ":=@", "x(", "x-(", "x=(", "X(", "X-(", "X=("}},
	{"bandit", "Bandit", []string{"(bandit)"}},
	{"beer", "Beer", []string{"(beer)", "(b)", "(B)"}},
	{"blush", "Blush", []string{":$", "(blush)", ":-$", ":=$"}},
	{"bow", "Bow", []string{"(bow)"}},
	{"brokenheart", "Broken heart", []string{"(u)", "(U)", "(brokenheart)"}},
	{"bug", "Bug", []string{"(bug)"}},
	{"cake", "Cake", []string{"(cake)", "(^)"}},
	{"call", "Call", []string{"(call)"}},
	{"cash", "Cash", []string{"(cash)", "(mo)", "($)"}},
	{"clap", "Clapping", []string{"(clap)"}},
	{"coffee", "Coffee", []string{"(coffee)"}},
	{"cool", "Cool", []string{"8=)", "8-)", "B=)", "B-)", "(cool)"}},
	{"cry", "Crying", []string{";(", ";-(", ";=("}},
	{"dance", "Dance", []string{"(dance)", `\o/`, `\:D/`, `\:d/`}},
	{"devil", "Devil", []string{"(devil)"}},
	{"doh", "Doh!", []string{"(doh)"}},
	{"drink", "Drink", []string{"(d)", "(D)"}},
	{"drunk", "Drunk", []string{"(drunk)"}},
	{"dull", "Dull", []string{"|(", "|-(", "|=(", "|-()"}},
	{"eg", "Evil grin", []string{"]:)", ">:)", "(grin)"}},
	{"emo", "Emo", []string{"(emo)"}},
	{"envy", "Envy", []string{"(envy)"}},
	{"finger", "Finger", []string{"(finger)"}},
	{"flower", "Flower", []string{"(f)", "(F)"}},
	{"fubar", "Fubar", []string{"(fubar)"}},
	{"giggle", "Giggle", []string{"(chuckle)", "(giggle)"}},
	{"handshake", "Shaking Hands", []string{"(handshake)"}},
	{"happy", "Happy", []string{"(happy)"}},
	{"headbang", "Headbang", []string{"(headbang)", "(banghead)"}},
	{"heart", "Heart", []string{"(h)", "(H)", "(l)", "(L)"}},
	{"hi", "Hi", []string{"(hi)"}},
	{"hug", "Hug", []string{"(hug)", "(bear)"}},
	{"inlove", "In love", []string{"(inlove)"}},
	{"kiss", "Kiss", []string{":*", ":=*", ":-*"}},
	{"laugh", "Laugh", []string{":D", ":=D", ":-D", ":d", ":=d", ":-d"}},
	{"lipssealed", "My lips are sealed", []string{":x", ":-x", ":X", ":-X", ":#", ":-#", ":=x", ":=X", ":=#"}},
	{"mail", "Mail", []string{"(e)", "(m)"}},
	{"makeup", "Make-up", []string{"(makeup)", "(kate)"}},
	{"mmm", "mmmmm..", []string{"(mm)"}},
	{"mooning", "Mooning", []string{"(mooning)"}},
	{"movie", "Movie", []string{"(~)", "(film)", "(movie)"}},
	{"muscle", "Muscle", []string{"(muscle)", "(flex)"}},
	{"music", "Music", []string{"(music)"}},
	{"nerdy", "Nerd", []string{"8-|", "B-|", "8|", "B|", "8=|", "B=|", "(nerd)"}},
	{"ninja", "Ninja", []string{"(ninja)"}},
	{"no", "No", []string{"(n)", "(N)"}},
	{"nod", "Nodding", []string{"(nod)"}},
	{"party", "Party", []string{"(party)"}},
	{"phone", "Phone", []string{"(ph)", "(mp)"}},
	{"pizza", "Pizza", []string{"(pizza)", "(pi)"}},
	{"poolparty", "Poolparty", []string{"(poolparty)"}},
	{"puke", "Puking", []string{"(puke)", ":&", ":-&", ":=&"}},
	{"punch", "Punch", []string{"(punch)"}},
	{"rain", "Raining", []string{"(rain)", "(london)", "(st)"}},
	{"rock", "Rock", []string{"(rock)"}},
	{"rofl", "Rolling on the floor laughing", []string{"(rofl)"}},
	{"sad", "Sad", []string{":(", ":=(", ":-("}},
	{"shake", "Shaking", []string{"(shake)"}},
	{"skype", "Skype", []string{"(skype)", "(ss)"}},
	{"sleepy", "Sleepy", []string{"|-)", "I-)", "I=)", "(snooze)"}},
	{"smile", "Smile", []string{":)", ":=)", ":-)"}},
	{"smirk", "Smirking", []string{"(smirk)"}},
	{"smoke", "Smoking", []string{"(smoking)", "(smoke)", "(ci)"}},
	{"speechless", "Speechless", []string{":|", ":=|", ":-|"}},
	{"star", "Star", []string{"(*)"}},
	{"sun", "Sun", []string{"(sun)"}},
	{"surprised", "Surprised", []string{":O", ":=o", ":-o", ":o", ":=O", ":-O"}},
	{"swear", "Swearing", []string{"(swear)"}},
	{"sweat", "Sweating", []string{"(sweat)", "(:|"}},
	{"talk", "Talking", []string{"(talk)"}},
	{"think", "Thinking", []string{"(think)", ":?", ":-?", ":=?"}},
	{"time", "Time", []string{"(time)"}},
	{"tmi", "Too much information", []string{"(tmi)"}},
	{"toivo", "Toivo", []string{"(toivo)"}},
	{"tongueout", "Tongue out", []string{":P", ":=P", ":-P", ":p", ":=p", ":-p"}},
	{"wait", "Wait", []string{"(wait)"}},
	{"wasntme", "It wasn't me!", []string{"(wasntme)"}},
	{"whew", "Relieved", []string{"(whew)"}},
	{"wink", "Wink", []string{"(wink)", ";)", ";-)", ";=)"}},
	{"wonder", "Wondering", []string{":^)"}},
	{"worry", "Worried", []string{":S", ":-S", ":=S", ":s", ":-s", ":=s"}},
	{"yawn", "Yawn", []string{"(yawn)"}},
	{"yes", "Yes", []string{"(y)", "(Y)", "(ok)"}},
	{"bertlett", "(bartlett)", []string{"(bartlett)"}},
	{"facepalm", "Facepalm", []string{"(facepalm)"}},
	{"fingerscrossed", "Fingers crossed", []string{"(fingerscrossed)"}},
	{"heidy", "Heidy", []string{"(heidy)"}},
	{"highfive", "High five", []string{"(highfive)"}},
	{"hollest", "Hollest", []string{"(hollest)"}},
	{"lalala", "Lalala", []string{"(lalala)"}},
	{"oliver", "(oliver)", []string{"(oliver)"}},
	{"soccer", "(soccer)", []string{"(soccer)"}},
	{"tumbleweed", "Tumbleweed", []string{"(tumbleweed)"}},
	{"waiting", "Waiting", []string{"(waiting)"}},
	{"wfh", "Working from home", []string{"(wfh)"}},
	{"wtf", "What the...", []string{"(wtf)"}},
}

// emoticonByString and emoticonTriggers are derived once from
// EmoticonCatalog at package init, mirroring EmoticonStrings in the
// original generator.
var (
	emoticonByString map[string]Emoticon
	emoticonTriggers []string
)

func init() {
	emoticonByString = make(map[string]Emoticon)
	for _, e := range EmoticonCatalog {
		for _, s := range e.Strings {
			emoticonByString[s] = e
		}
		emoticonTriggers = append(emoticonTriggers, e.Strings...)
	}
}
