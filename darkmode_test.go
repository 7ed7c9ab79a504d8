package twconfig

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDarkModeValidate(t *testing.T) {
	tests := []struct {
		name    string
		mode    DarkMode
		wantErr error
	}{
		{name: "default", mode: Default().DarkMode},
		{name: "media", mode: MediaBased()},
		{name: "compound class selector", mode: ClassBased("html.dark")},
		{name: "dotted class", mode: ClassBased(".night")},
		{name: "class without selectors", mode: ClassBased(), wantErr: ErrInvalidSelector},
		{name: "empty selector", mode: ClassBased(""), wantErr: ErrInvalidSelector},
		{name: "block in selector", mode: ClassBased("a{color:red}"), wantErr: ErrInvalidSelector},
		{name: "at-rule selector", mode: ClassBased("@media print"), wantErr: ErrInvalidSelector},
		{name: "media with selectors", mode: DarkMode{Strategy: DarkMedia, Selectors: []string{"night"}}, wantErr: ErrInvalidSelector},
		{name: "unknown strategy", mode: DarkMode{Strategy: "auto"}, wantErr: ErrUnknownDarkStrategy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mode.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDarkModeVariant(t *testing.T) {
	tests := []struct {
		name  string
		mode  DarkMode
		class string
		want  string
	}{
		{
			name:  "literal class then attribute selector",
			mode:  Default().DarkMode,
			class: "dark:bg-black",
			want:  `.night .dark\:bg-black, [data-theme="night"] .dark\:bg-black`,
		},
		{
			name:  "selector order is kept",
			mode:  ClassBased(`[data-theme="night"]`, "night"),
			class: "dark:bg-black",
			want:  `[data-theme="night"] .dark\:bg-black, .night .dark\:bg-black`,
		},
		{
			name:  "verbatim class selector",
			mode:  ClassBased(".night"),
			class: "dark:p-4",
			want:  `.night .dark\:p-4`,
		},
		{
			name:  "media strategy",
			mode:  MediaBased(),
			class: "dark:text-white",
			want:  `@media (prefers-color-scheme: dark) { .dark\:text-white }`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.mode.Variant(tt.class))
		})
	}
}

func TestEscapeClass(t *testing.T) {
	tests := map[string]string{
		"flex":          "flex",
		"dark:bg-black": `dark\:bg-black`,
		"md:w-1/2":      `md\:w-1\/2`,
		"w-[10px]":      `w-\[10px\]`,
		"2xl:p-4":       `\32 xl\:p-4`,
		"p-0.5":         `p-0\.5`,
		"_internal":     "_internal",
		"-1":            `-\31 `,
		"-mt-4":         "-mt-4",
		"p1":            "p1",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			require.Equal(t, want, EscapeClass(in))
		})
	}
}

func TestClassBasedCopiesSelectors(t *testing.T) {
	selectors := []string{"night"}
	mode := ClassBased(selectors...)
	selectors[0] = "changed"
	require.Equal(t, []string{"night"}, mode.Selectors)
}

func TestDarkModeString(t *testing.T) {
	require.Equal(t, "media", MediaBased().String())
	require.Equal(t, `class ["night"]`, ClassBased("night").String())
}
