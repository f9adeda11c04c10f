package widget

import (
	"errors"
	"strings"
	"text/template"
)

type Framework string

const (
	FrameworkHTML    Framework = "html"
	FrameworkNextJS  Framework = "nextjs"
	FrameworkReact   Framework = "react"
	FrameworkVue     Framework = "vue"
	FrameworkAngular Framework = "angular"
)

var Frameworks = []Framework{FrameworkHTML, FrameworkNextJS, FrameworkReact, FrameworkVue, FrameworkAngular}

var ErrUnknownFramework = errors.New("unknown framework")

const initCall = `window.FeedbackWidget.init({
      websiteId: '{{js .Config.WebsiteID}}',
      position: '{{js .Config.Position}}',
      color: '{{js .Config.Color}}',
    });`

const loadScript = `const script = document.createElement('script');
    script.src = '{{js .ScriptURL}}';
    script.async = true;
    script.onload = () => {
      ` + initCall + `
    };
    document.body.appendChild(script);`

var snippetTemplates = map[Framework]*template.Template{
	FrameworkHTML: template.Must(template.New("html").Parse(`<script src="{{html .ScriptURL}}"></script>
<script>
  window.FeedbackWidget.init({
    websiteId: '{{js .Config.WebsiteID}}',
    position: '{{js .Config.Position}}',
    color: '{{js .Config.Color}}',
  });
</script>
`)),

	FrameworkNextJS: template.Must(template.New("nextjs").Parse(`'use client';

import Script from 'next/script';

export default function FeedbackWidget() {
  return (
    <Script
      src="{{js .ScriptURL}}"
      strategy="afterInteractive"
      onLoad={() => {
        ` + initCall + `
      }}
    />
  );
}
`)),

	FrameworkReact: template.Must(template.New("react").Parse(`import { useEffect } from 'react';

export default function FeedbackWidget() {
  useEffect(() => {
    ` + loadScript + `
    return () => {
      document.body.removeChild(script);
    };
  }, []);

  return null;
}
`)),

	FrameworkVue: template.Must(template.New("vue").Parse(`<template>
  <div></div>
</template>

<script>
export default {
  mounted() {
    ` + loadScript + `
  },
};
</script>
`)),

	FrameworkAngular: template.Must(template.New("angular").Parse(`import { Component, OnInit } from '@angular/core';

@Component({
  selector: 'app-feedback-widget',
  template: '<div></div>',
})
export class FeedbackWidgetComponent implements OnInit {
  ngOnInit() {
    ` + loadScript + `
  }
}
`)),
}

func ParseFramework(s string) (Framework, error) {
	if s == "" {
		return FrameworkHTML, nil
	}
	f := Framework(strings.ToLower(s))
	if _, ok := snippetTemplates[f]; !ok {
		return "", ErrUnknownFramework
	}
	return f, nil
}

// Snippet renders the code a site owner pastes into their app to load the
// widget from scriptURL with cfg.
func Snippet(f Framework, scriptURL string, cfg Config) (string, error) {
	tmpl, ok := snippetTemplates[f]
	if !ok {
		return "", ErrUnknownFramework
	}
	cfg, err := cfg.Normalize()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	err = tmpl.Execute(&b, struct {
		ScriptURL string
		Config    Config
	}{scriptURL, cfg})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
