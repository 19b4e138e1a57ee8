// Copyright 2026 The NLP Odyssey Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package agent

// UserError is returned when the caller misuses the agent, e.g. requesting
// a tool that is not registered. It is the only error class that surfaces
// to the caller; everything else degrades into limitations.
type UserError error

// ModelBehaviorError is returned when a backend does something unexpected,
// e.g. producing JSON that fails its shape check. Callers downgrade it to a
// limitation.
type ModelBehaviorError error
