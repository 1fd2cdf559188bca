package util

import "testing"

func TestSanitizePlainText(t *testing.T) {
	tests := []struct {
		name     string
		val      string
		expected string
	}{
		{name: "plain text", val: "hello world", expected: "hello world"},
		{name: "formatting tags", val: "<p>some <b>bold</b> text</p>", expected: "some bold text"},
		{name: "script dropped with its body", val: "hi<script>alert(1)</script>", expected: "hi"},
		{name: "event handlers", val: `<a href="#" onclick="steal()">link</a>`, expected: "link"},
		{name: "entities unescaped", val: "Tom &amp; Jerry", expected: "Tom & Jerry"},
		{name: "only markup", val: "<img src=x onerror=alert(1)>", expected: ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if result := SanitizePlainText(test.val); result != test.expected {
				t.Errorf("expected %q, got %q", test.expected, result)
			}
		})
	}
}
