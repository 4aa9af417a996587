// Package seswire is a self-contained Go client for the Amazon SES v2
// email-sending API. It carries its own Signature Version 4 request signer,
// including a dependency-free SHA-256/HMAC fallback, so a send is reproducible
// byte for byte without the SDK's service client.
//
// # Basic Usage
//
//	client, err := seswire.New(seswire.DefaultConfig(),
//		seswire.WithRegion("eu-west-1"),
//		seswire.WithCredentials("AKIA...", "secret"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	msg := &seswire.Message{
//		From:     seswire.Address{Email: "noreply@example.com"},
//		To:       []seswire.Address{{Email: "user@example.com"}},
//		Subject:  "Welcome, {{name}}",
//		TextBody: "Hello {{name}}!",
//	}
//
//	result, err := client.Send(context.Background(), msg,
//		seswire.WithParams(map[string]string{"name": "Ada"}))
//
// # Features
//
//   - In-repo SigV4 signing with injectable clock and crypto
//   - Bounded, jittered exponential retries with a typed failure taxonomy
//   - Placeholder interpolation for subject and bodies
//   - Ordered middleware observing every send exactly once
//   - Wire-level request/response logging with header redaction
//   - Context-aware, safe for concurrent use
package seswire
