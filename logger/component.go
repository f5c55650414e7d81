// Copyright (c) 2024, The OTNS Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

package logger

import (
	"sync"
	"sync/atomic"
)

// ComponentLogger prefixes all its log lines with a component tag and can be given its own level,
// which is applied on top of the global level.
type ComponentLogger struct {
	tag   string
	level int32
}

var components sync.Map // name -> *ComponentLogger

// For returns the ComponentLogger that tags messages with "[name]". Loggers are shared by name, so a level set
// through one caller applies to every user of the same component.
func For(name string) *ComponentLogger {
	if cl, ok := components.Load(name); ok {
		return cl.(*ComponentLogger)
	}
	cl, _ := components.LoadOrStore(name, &ComponentLogger{
		tag:   "[" + name + "] ",
		level: int32(TraceLevel),
	})
	return cl.(*ComponentLogger)
}

// SetLevel limits this component's output; the global level still applies.
func (cl *ComponentLogger) SetLevel(lv Level) {
	atomic.StoreInt32(&cl.level, int32(lv))
}

func (cl *ComponentLogger) Level() Level {
	return Level(atomic.LoadInt32(&cl.level))
}

// IsLevelOn is true if a message at level lv would be emitted; use it to skip building costly messages.
func (cl *ComponentLogger) IsLevelOn(lv Level) bool {
	return lv <= cl.Level() && lv <= GetLevel()
}

func (cl *ComponentLogger) logf(lv Level, format string, args []interface{}) {
	if !cl.IsLevelOn(lv) {
		return
	}
	Logf(lv, cl.tag+format, args)
}

func (cl *ComponentLogger) Tracef(format string, args ...interface{}) {
	cl.logf(TraceLevel, format, args)
}

func (cl *ComponentLogger) Debugf(format string, args ...interface{}) {
	cl.logf(DebugLevel, format, args)
}

func (cl *ComponentLogger) Infof(format string, args ...interface{}) {
	cl.logf(InfoLevel, format, args)
}

func (cl *ComponentLogger) Warnf(format string, args ...interface{}) {
	cl.logf(WarnLevel, format, args)
}

func (cl *ComponentLogger) Errorf(format string, args ...interface{}) {
	cl.logf(ErrorLevel, format, args)
}
