// Copyright 2013 - 2015 Sebastian Ruml <sebastian.ruml@gmail.com>
// Copyright 2021 - 2022 Mendel Greenberg <mendel@chabad360.me>

//Package osc encodes and decodes OpenSoundControl 1.0 packets and carries them over UDP.
//
//This implementation is based on the Open Sound Control 1.0 Specification (http://opensoundcontrol.org/spec-1_0.html).
//
//Open Sound Control (OSC) is an open, transport-independent, message-based protocol developed for communication among computers,
//sound synthesizers, and other multimedia devices.
//
//Features
//
//- Supports OSC messages with the following TypeTags:
//
//	'i' (int32)
//	'f' (float32, float64 is narrowed when encoding)
//	's' (string)
//	'b' ([]byte)
//
//- Supports OSC bundles, including nested bundles and TimeTags
//
//- Every encode and decode problem is recorded; Errors returns them and the returned error combines them (see go.uber.org/multierr).
//
//Packets
//
//The unit of transmission of OSC is an OSC Packet. Any application that sends OSC Packets is an OSC Client;
//any application that receives OSC Packets is an OSC Server.
//
//An OSC packet consists of its contents, a contiguous block of binary data.
//The size of an OSC packet is always 32-bit aligned.
//
//OSC packets come in two flavors:
//
//OSC Messages: An OSC message consists of an OSC address pattern and  zero or more OSC arguments.
//
//OSC Bundles: An OSC Bundle consists of an OSC Timetag, followed by zero or more OSC bundle elements.
//Each bundle element can be another OSC bundle (note this recursive definition: a bundle may contain bundles) or OSC message.
//
//The primitive readers (ReadString, ReadInt32, ReadUint64, ReadFloat32, ReadBlob) take a Cursor by value and return the
//advanced Cursor, so a failed read leaves the caller's position untouched.
//
//Usage
//
//OSC client example:
//  client, err := osc.Dial("localhost:8765")
//  if err != nil {
//      return err
//  }
//  msg := osc.NewMessage("/osc/address")
//  osc.AppendArgs(msg, int32(111))
//  msg.Append("hello")
//  err = client.Send(msg)
//
//OSC server example:
//  server := &osc.Server{Addr: "127.0.0.1:8765"}
//  out := make(chan osc.Received)
//  go func() {
//      server.ListenAndServe(ctx, out)
//      close(out)
//  }()
//  for r := range out {
//      if r.Err != nil {
//          continue
//      }
//      fmt.Println(r.Packet)
//  }
package osc
