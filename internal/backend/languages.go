package backend

import "context"

type Language struct {
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
	Flag       string `json:"flag"`
	Enabled    bool   `json:"enabled"`
}

type LanguageSet struct {
	Languages map[string]Language `json:"languages"`
	Default   string              `json:"default"`
}

func (c *Client) SupportedLanguages(ctx context.Context) (*LanguageSet, error) {
	var set LanguageSet
	if err := c.getJSON(ctx, "/supported-languages/", nil, &set); err != nil {
		return nil, err
	}
	if set.Default == "" {
		set.Default = "en"
	}
	return &set, nil
}
