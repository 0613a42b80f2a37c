package configuration

// Features reports which optional tiers can run with the loaded keys.
type Features struct {
	OfficialKey  bool
	OfficialUser bool
	Audio        bool
	Summaries    bool
	Payments     bool
	RateLimit    bool
	Events       bool
}

func (c Config) Features() Features {
	return Features{
		OfficialKey:  c.YouTube.APIKey != "",
		OfficialUser: c.YouTube.ClientID != "" && c.YouTube.ClientSecret != "",
		Audio:        c.Speech.APIKey != "",
		Summaries:    c.OpenAI.APIKey != "",
		Payments:     c.Stripe.SecretKey != "" && c.Stripe.WebhookSecret != "",
		RateLimit:    c.RedisClient.Host != "",
		Events:       c.Events.Backend != "",
	}
}

// Fields is the shape logged at startup.
func (f Features) Fields() map[string]interface{} {
	return map[string]interface{}{
		"officialKey":  f.OfficialKey,
		"officialUser": f.OfficialUser,
		"audio":        f.Audio,
		"summaries":    f.Summaries,
		"payments":     f.Payments,
		"rateLimit":    f.RateLimit,
		"events":       f.Events,
	}
}
