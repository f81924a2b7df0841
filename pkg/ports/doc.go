/*
Package ports defines the driven ports (interfaces) for the Wayfinder engine.

These interfaces decouple the traversal core from external implementations, allowing
it to work with various storage backends, content sources and collaborators.

# Key Interfaces

  - GraphSource / SurveySource: load configuration artifacts by ID (YAML files, Loam, Memory).
  - StateStore: persists and loads traversal session State.
  - DistributedLocker: distributed locking for concurrent session access across replicas.
  - QuizBackend: the remote persistence collaborator used by the quiz runner.
  - SurveyRepository: server-side storage behind QuizBackend (SQLite, Memory).
  - FeedbackGenerator: natural-language feedback from an evaluation profile.

Reusable contract suites (RunStateStoreContract, RunSurveyRepositoryContract) let every
adapter prove it honors the same semantics.
*/
package ports
